//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译，构建前需要把根目录的
// data/landing.yaml 复制到 mobile/data/ 下：
//
//	mkdir -p mobile/data && cp data/landing.yaml mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed data/landing.yaml
var dataFS embed.FS
