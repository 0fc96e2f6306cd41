//go:build !mobile

package utils

import "os"

// EnvMobileEmulate 置为 1 时桌面端按移动端处理（鼠标拖拽模拟触摸）
const EnvMobileEmulate = "FOURBITS_MOBILE_EMULATE"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false，除非设置了 FOURBITS_MOBILE_EMULATE=1
func IsMobile() bool {
	return os.Getenv(EnvMobileEmulate) == "1"
}
