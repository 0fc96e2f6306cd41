// leadctl 预约线索后台命令行
//
// 用法：
//
//	leadctl login --token <logintoken>
//	leadctl session-token
//	leadctl fetch
//	leadctl export [--out leads.csv]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
