package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/MeowSalty/tribeai/config"
	"github.com/MeowSalty/tribeai/server"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "加载配置失败：", err)
		os.Exit(2)
	}

	// 启动服务器
	if err := server.Run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
