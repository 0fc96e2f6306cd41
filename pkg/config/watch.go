package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 连续保存合并为一次重载的间隔
const DefaultDebounce = 200 * time.Millisecond

// Watcher 监视配置文件，修改后重新加载
//
// 监视的是文件所在目录：编辑器保存时常常先删除再创建文件。
// 解析或校验失败的版本只记录日志，不会下发。
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	updates  chan *LandingConfig

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher 创建配置监视器
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watch: config path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		updates:  make(chan *LandingConfig, 1),
		done:     make(chan struct{}),
	}, nil
}

// Updates 重新加载成功的配置
func (w *Watcher) Updates() <-chan *LandingConfig {
	return w.updates
}

// Run 事件循环，直到 ctx 取消或 Close
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Config] 监视出错: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("[Config] 重新加载失败，保留当前配置: %v", err)
		return
	}
	log.Printf("[Config] 已重新加载 %s", w.path)
	// 只保留最新的一份
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}

// Close 停止监视，可重复调用
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
