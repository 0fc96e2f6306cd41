package leads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Lead 一条线索记录，保留字段出现顺序
type Lead struct {
	Keys   []string
	Values map[string]any
}

// NewLead 按给定顺序构造记录，kv 为键值交替
func NewLead(kv ...any) Lead {
	l := Lead{Values: make(map[string]any)}
	for i := 0; i+1 < len(kv); i += 2 {
		k := fmt.Sprint(kv[i])
		l.set(k, kv[i+1])
	}
	return l
}

func (l *Lead) set(k string, v any) {
	if l.Values == nil {
		l.Values = make(map[string]any)
	}
	if _, ok := l.Values[k]; !ok {
		l.Keys = append(l.Keys, k)
	}
	l.Values[k] = v
}

// Get 取字段
func (l Lead) Get(k string) (any, bool) {
	v, ok := l.Values[k]
	return v, ok
}

// UnmarshalJSON 解析对象并记录键顺序
func (l *Lead) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("lead must be an object, got %v", tok)
	}
	*l = Lead{Values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("lead field %q: %w", key, err)
		}
		l.set(key, v)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON 按键顺序输出
func (l Lead) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range l.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(l.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Listing 线索列表响应
type Listing struct {
	Leads []Lead
}

// UnmarshalJSON 兼容数组与 leads/items 包装
func (l *Listing) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &l.Leads)
	}
	var wrapped struct {
		Leads []Lead `json:"leads"`
		Items []Lead `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	l.Leads = wrapped.Leads
	if l.Leads == nil {
		l.Leads = wrapped.Items
	}
	return nil
}

// cell 把值转换为表格单元格文本
func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
