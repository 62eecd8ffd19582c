package main

import (
	"context"
	"encoding/base64"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"git.fiblab.net/sim/syncer/v3"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/righthand-planner/recorder"
	"github.com/tsinghua-fib-lab/righthand-planner/task"
	"github.com/tsinghua-fib-lab/righthand-planner/utils/config"
)

var (
	// 运行模式：serve-通过RPC/websocket为外部仿真器提供规划；local-在本地场景中运行
	mode = flag.String("mode", "serve", "run mode: serve or local")
	// 分布式模式syncer地址，如果设置为空则激活独立部署模式
	syncerAddr = flag.String("syncer", "", "syncer address (empty means standalone mode), e.g. http://localhost:53001")
	// 任务名
	job = flag.String("job", "job0", "the name of the planning task")
	// 本程序监听的地址
	grpcAddr = flag.String("listen", ":51102", "RPC and websocket listening address")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path (empty means built-in defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 本地模式运行轮数，<=0时使用配置文件中的值
	rounds = flag.Int("rounds", 0, "rounds to run in local mode (<=0 means control.rounds)")

	statsviewAddr = flag.String("debug.statsview", "", "runtime statsview address, e.g. localhost:18066 (empty means disabled)")
	sentryDSN     = flag.String("sentry.dsn", "", "sentry DSN (empty means disabled)")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "main")
)

// loadConfig 从文件或base64数据读取配置，都未指定时使用默认配置
func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

// probeURL 由监听地址构造就绪探测地址
func probeURL(listen string) string {
	if strings.HasPrefix(listen, ":") {
		listen = "localhost" + listen
	}
	return "http://" + listen + "/"
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN}); err != nil {
			log.Panicf("sentry init err: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}
	if *statsviewAddr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithAddr(*statsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	c := loadConfig()
	log.Infof("%+v", c)

	var mongo *recorder.Mongo
	if c.Output != nil {
		var err error
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongo, err = recorder.NewMongo(ctx, *c.Output)
		cancel()
		if err != nil {
			log.Panicf("output init err: %v", err)
		}
	}

	switch *mode {
	case "local":
		t := task.NewContext(*job, c, nil, mongo)
		defer t.Close()
		t.RunLocal(int32(*rounds))
	case "serve":
		sidecar := syncer.NewSidecar(task.SelfName, *grpcAddr, *syncerAddr)
		t := task.NewContext(*job, c, sidecar, mongo)
		if err := t.Serve(probeURL(*grpcAddr)); err != nil {
			log.Panicf("serve err: %v", err)
		}
		sig, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		<-sig.Done()
		stop()
		log.Info("shutting down")
		t.Close()
	default:
		log.Panicf("mode must be serve or local, got %q", *mode)
	}
}
