package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/makingkaiser/exa-fraud/internal/conf"
	"github.com/makingkaiser/exa-fraud/internal/server"
	"github.com/makingkaiser/exa-fraud/internal/service"
	"github.com/makingkaiser/exa-fraud/internal/usecase"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "exa-fraud"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	// 初始化配置加载器
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	app, cleanup, err := initApp(bc.Server, bc.Detector, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}

// initApp 手动装配依赖：搜索客户端、生成引擎、业务逻辑、服务与 HTTP 服务器
func initApp(cs *conf.Server, cd *conf.Detector, logger log.Logger) (*kratos.App, func(), error) {
	searcher, eng, err := server.NewDetector(cd, logger)
	if err != nil {
		return nil, nil, err
	}

	uc := usecase.NewInvestigationUseCase(searcher, eng, logger)
	svc := service.NewFraudService(uc, logger)
	httpSrv := server.NewHTTPServer(cs, svc, logger)

	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(logger),
		kratos.Server(httpSrv),
	)
	return app, func() {}, nil
}
