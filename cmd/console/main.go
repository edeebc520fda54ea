// console 图书馆控制台
//
// 所有读写都经过客户端Store,Store通过Transport访问API;
// API不可用且client.seed_fallback=true时自动切换到本地种子数据
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
