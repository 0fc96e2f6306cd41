package view

import (
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GlobeVariant 地球仪素材变体
type GlobeVariant int

const (
	// VariantSatellites 未预订：卫星环绕
	VariantSatellites GlobeVariant = iota
	// VariantEarthShield 已预订：护盾
	VariantEarthShield
)

// String 返回变体名称
func (v GlobeVariant) String() string {
	if v == VariantEarthShield {
		return "earth-shield"
	}
	return "satellites"
}

// VariantFor 根据预订状态选择变体
func VariantFor(hasPreordered bool) GlobeVariant {
	if hasPreordered {
		return VariantEarthShield
	}
	return VariantSatellites
}

// Region 经纬度矩形陆地区域
type Region struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// Contains 判断坐标是否落在区域内
func (r Region) Contains(lat, lon float64) bool {
	return lat >= r.LatMin && lat <= r.LatMax && lon >= r.LonMin && lon <= r.LonMax
}

// DefaultRegions 欧洲、亚洲、澳洲的粗略陆地分区
var DefaultRegions = []Region{
	{LatMin: 36, LatMax: 71, LonMin: -10, LonMax: 40},    // 欧洲
	{LatMin: 5, LatMax: 55, LonMin: 40, LonMax: 90},      // 西亚/中亚
	{LatMin: 15, LatMax: 50, LonMin: 90, LonMax: 135},    // 东亚
	{LatMin: -10, LatMax: 28, LonMin: 70, LonMax: 145},   // 南亚/东南亚
	{LatMin: 35, LatMax: 75, LonMin: 60, LonMax: 180},    // 北亚
	{LatMin: -44, LatMax: -10, LonMin: 113, LonMax: 154}, // 澳洲
}

// indiaRegion 存储节点只放在印度境内
var indiaRegion = Region{LatMin: 8, LatMax: 30, LonMin: 70, LonMax: 88}

// GlobePoint 球面上的一个粒子
type GlobePoint struct {
	Lat, Lon    float64
	Highlighted bool
	BlinkPhase  float64
}

// GeneratePoints 用黄金螺旋在球面上均匀撒点，只保留陆地上的点
// 再从印度境内的点中选出 highlights 个作为存储节点
func GeneratePoints(total, highlights int, regions []Region, seed int64) []GlobePoint {
	rng := rand.New(rand.NewSource(seed))

	var points []GlobePoint
	for i := 0; i < total; i++ {
		phi := math.Acos(-1 + 2*float64(i)/float64(total))
		theta := math.Sqrt(float64(total)*math.Pi) * phi

		lat := 90 - phi*180/math.Pi
		lon := normalizeLon(theta * 180 / math.Pi)
		if !onLand(lat, lon, regions) {
			continue
		}
		points = append(points, GlobePoint{Lat: lat, Lon: lon, BlinkPhase: rng.Float64() * 2 * math.Pi})
	}

	var candidates []int
	for i, p := range points {
		if indiaRegion.Contains(p.Lat, p.Lon) {
			candidates = append(candidates, i)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if highlights > len(candidates) {
		highlights = len(candidates)
	}
	for _, idx := range candidates[:highlights] {
		points[idx].Highlighted = true
	}
	return points
}

func onLand(lat, lon float64, regions []Region) bool {
	for _, r := range regions {
		if r.Contains(lat, lon) {
			return true
		}
	}
	return false
}

// normalizeLon 把经度规范到 [-180, 180)
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Project 正交投影：返回相对球心的屏幕偏移与是否位于可见半球
// rotLat/rotLng 为视图旋转（度），屏幕 y 轴向下
func Project(lat, lon, rotLat, rotLng, radius float64) (x, y float64, visible bool) {
	la := (lat + rotLat) * math.Pi / 180
	lo := (lon + rotLng) * math.Pi / 180

	x = radius * math.Cos(la) * math.Sin(lo)
	y = -radius * math.Sin(la)
	z := math.Cos(la) * math.Cos(lo)
	return x, y, z >= 0
}

// Globe 粒子地球仪
//
// 通过 Messages 接收宿主发送的 GLOBE_ROTATION 消息，不回复。
type Globe struct {
	points   []GlobePoint
	variant  GlobeVariant
	rotation Message
	inbox    <-chan Message

	// 自转角度（度），与宿主旋转叠加
	spin    float64
	elapsed float64

	landColor      color.RGBA
	highlightColor color.RGBA
}

// NewGlobe 创建地球仪
// inbox 可为 nil（不接收旋转）
func NewGlobe(inbox <-chan Message, variant GlobeVariant) *Globe {
	return &Globe{
		points:         GeneratePoints(2500, 42, DefaultRegions, 42),
		variant:        variant,
		inbox:          inbox,
		landColor:      color.RGBA{R: 0x44, G: 0x88, B: 0xff, A: 0xbf},
		highlightColor: color.RGBA{R: 0x00, G: 0xff, B: 0x66, A: 0xf2},
	}
}

// SetVariant 切换素材变体
func (g *Globe) SetVariant(v GlobeVariant) {
	if g.variant != v {
		log.Printf("[Globe] variant -> %s", v)
	}
	g.variant = v
}

// Variant 当前素材变体
func (g *Globe) Variant() GlobeVariant {
	return g.variant
}

// Rotation 最近一次收到的旋转
func (g *Globe) Rotation() (lat, lng float64) {
	return g.rotation.Rotation.Lat, g.rotation.Rotation.Lng
}

// PointCount 粒子数
func (g *Globe) PointCount() int {
	return len(g.points)
}

// Receive 处理一条消息，未知类型忽略
func (g *Globe) Receive(m Message) {
	if m.Type != TypeGlobeRotation {
		return
	}
	g.rotation = m
}

// Update 取出所有待处理消息并推进自转动画
func (g *Globe) Update(dt float64) {
	g.drain()
	g.elapsed += dt
	g.spin = math.Mod(g.spin+dt*3, 360)
}

func (g *Globe) drain() {
	for g.inbox != nil {
		select {
		case m, ok := <-g.inbox:
			if !ok {
				g.inbox = nil
				return
			}
			g.Receive(m)
		default:
			return
		}
	}
}

// Draw 在 (cx, cy) 处绘制半径为 radius 的地球仪
func (g *Globe) Draw(dst *ebiten.Image, cx, cy, radius float64) {
	rotLat, rotLng := g.Rotation()
	rotLng += g.spin

	for _, p := range g.points {
		x, y, visible := Project(p.Lat, p.Lon, rotLat, rotLng, radius)
		if !visible {
			continue
		}
		clr := g.landColor
		size := radius / 90
		if p.Highlighted {
			clr = g.highlightColor
			clr.A = uint8(160 + 95*(0.5+0.5*math.Sin(g.elapsed*4+p.BlinkPhase)))
			size *= 1.6
		}
		vector.DrawFilledCircle(dst, float32(cx+x), float32(cy+y), float32(size), clr, true)
	}

	switch g.variant {
	case VariantEarthShield:
		shield := color.RGBA{R: 0x66, G: 0xcc, B: 0xff, A: 0x80}
		vector.StrokeCircle(dst, float32(cx), float32(cy), float32(radius*1.12), float32(radius/40), shield, true)
	default:
		g.drawSatellites(dst, cx, cy, radius)
	}
}

func (g *Globe) drawSatellites(dst *ebiten.Image, cx, cy, radius float64) {
	sat := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xcc}
	for i := 0; i < 6; i++ {
		angle := g.elapsed*0.6 + float64(i)*math.Pi/3
		orbit := radius * (1.25 + 0.05*float64(i%3))
		x := cx + orbit*math.Cos(angle)
		y := cy + orbit*math.Sin(angle)*0.35
		vector.DrawFilledRect(dst, float32(x-2), float32(y-2), 4, 4, sat, true)
	}
}
