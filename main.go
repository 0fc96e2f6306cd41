package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lucifer-ux/4bitsLanding/pkg/app"
	"github.com/lucifer-ux/4bitsLanding/pkg/embedded"
)

var (
	configPath = flag.String("config", "", "配置文件路径（默认使用内嵌的 data/landing.yaml）")
	variant    = flag.String("variant", "", "落地页变体: globe 或 product（覆盖配置）")
	verbose    = flag.Bool("verbose", false, "启用详细日志输出")
	watch      = flag.Bool("watch", false, "监视 --config 指定的文件，保存后重新加载")
)

func main() {
	flag.Parse()
	embedded.Init(dataFS)

	landing, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Variant:    *variant,
		Watch:      *watch,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer landing.Close()

	window := landing.Window()
	ebiten.SetWindowSize(window.Width, window.Height)
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(landing); err != nil {
		log.Fatal(err)
	}
}
