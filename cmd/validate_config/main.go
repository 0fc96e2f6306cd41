// validate_config 校验落地页配置文件并打印每一步的曲线与叠加文字
//
// 用法：
//
//	go run ./cmd/validate_config --config data/landing.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lucifer-ux/4bitsLanding/pkg/config"
	"github.com/lucifer-ux/4bitsLanding/pkg/scroll"
)

var configPath = flag.String("config", "data/landing.yaml", "配置文件路径")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 配置有效: %s (variant=%s)\n", *configPath, cfg.Variant)
	fmt.Printf("✅ 步数 %d，冷却 %v，叠加文字 %d 段\n", cfg.Scroll.TotalSteps, cfg.Scroll.Cooldown, len(cfg.Overlays))

	curves := scroll.NewCurves(cfg.Curves)
	overlays := scroll.OverlaysFromConfig(cfg.Overlays)
	vh := float64(cfg.Window.Height)

	fmt.Println()
	fmt.Println("step  progress  scale  translateY  opacity  overlays")
	last := cfg.Scroll.TotalSteps - 1
	for step := 0; step <= last; step++ {
		p := float64(step) / float64(last)
		tf := curves.Transform(p, vh)

		var visible []string
		for i, o := range overlays.Opacities(p) {
			if o > 0 {
				visible = append(visible, fmt.Sprintf("%s=%.2f", cfg.Overlays[i].ID, o))
			}
		}
		fmt.Printf("%4d  %8.2f  %5.2f  %10.1f  %7.2f  %s\n",
			step, p, tf.Scale, tf.TranslateY, tf.Opacity, strings.Join(visible, " "))
	}

	for _, ep := range []struct{ name, value string }{
		{"supabaseURL", cfg.Endpoints.SupabaseURL},
		{"leadsBaseURL", cfg.Endpoints.LeadsBaseURL},
		{"razorpayKeyID", cfg.Endpoints.RazorpayKeyID},
	} {
		if ep.value == "" {
			fmt.Printf("⚠️  endpoints.%s 未配置\n", ep.name)
		}
	}
}
