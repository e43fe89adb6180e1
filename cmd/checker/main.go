package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"seed_checker/internal/app/port"
	"seed_checker/internal/app/service"
	"seed_checker/internal/infrastructure/configloader"
	"seed_checker/internal/infrastructure/derivation"
	"seed_checker/internal/infrastructure/findingstore"
	"seed_checker/internal/infrastructure/httpclient"
	clientprovider "seed_checker/internal/infrastructure/network/client"
	networkdefinition "seed_checker/internal/infrastructure/network/definition"
	"seed_checker/internal/infrastructure/restapi"
	"seed_checker/internal/infrastructure/tokenloader"
	"seed_checker/internal/infrastructure/wordlist"
	"seed_checker/internal/pkg/logger"
	"seed_checker/internal/pkg/metrics"
)

func millis(n int64) time.Duration { return time.Duration(n) * time.Millisecond }

func main() {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, err := configloader.LoadEnv()
	if err != nil {
		logrus.Fatalf("Не удалось прочитать переменные окружения: %v", err)
	}

	// Загрузка конфигурации
	cfg, err := configloader.Load(env.ConfigPath)
	if err != nil {
		logrus.Fatalf("Не удалось загрузить конфигурацию %s: %v", env.ConfigPath, err)
	}
	if err := cfg.ApplyEnv(env); err != nil {
		logrus.Fatalf("Некорректная переменная окружения: %v", err)
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize zapLogger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	logger.Init(zapLogger)

	logger.Info("Сервис поиска мнемоник запускается...", "config", env.ConfigPath)
	appLogger := logger.NewSlogAdapter()

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry, "seed_checker")

	// Словарь и кодек
	source, err := wordlist.NewSource(cfg.Wordlist.Source, cfg.Wordlist.Path, cfg.Wordlist.URL, millis(cfg.Wordlist.TimeoutMillis), zapLogger)
	if err != nil {
		logger.Fatal("Некорректный источник словаря", "error", err)
	}
	wl, err := source.Load(appCtx)
	if err != nil {
		logger.Fatal("Не удалось загрузить словарь", "source", cfg.Wordlist.Source, "error", err)
	}
	codec := service.NewMnemonicCodec(wl, service.WithCodecMetrics(m))
	logger.Info("Словарь загружен", "words", wl.Len())

	// Сети и клиенты
	tokens, err := tokenloader.NewTokenLoader(cfg.Tokens.Directory, appLogger).LoadTokens()
	if err != nil {
		logger.Fatal("Не удалось загрузить списки токенов", "dir", cfg.Tokens.Directory, "error", err)
	}
	defProvider := networkdefinition.NewChainDefinitionProvider(appLogger, cfg.Chains, tokens)
	clientProvider := clientprovider.NewChainClientProvider(millis(cfg.Aggregator.RequestTimeoutMillis), zapLogger, appLogger)
	clients := clientprovider.BuildClients(clientProvider, defProvider.GetAllChainDefinitions(), appLogger)
	if len(clients) == 0 {
		logger.Fatal("Нет ни одной доступной сети")
	}
	defer closeClients(clients)

	aggOpts := []service.AggregatorOption{
		service.WithTokenBalances(cfg.Aggregator.FetchTokens),
		service.WithRequestPause(millis(cfg.Aggregator.RequestPauseMillis)),
		service.WithRequestTimeout(millis(cfg.Aggregator.RequestTimeoutMillis)),
		service.WithAggregatorMetrics(m),
	}

	// Цены
	if cfg.CoinGecko.IsEnabled() {
		feed := httpclient.NewCoinGeckoClient(cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey, millis(cfg.CoinGecko.RequestTimeoutMillis), zapLogger)
		oracle := service.NewPriceOracle(feed, defProvider.PriceIDs(), time.Duration(cfg.CoinGecko.CacheTTLMinutes)*time.Minute, appLogger, m)
		warmCtx, warmCancel := context.WithTimeout(appCtx, millis(cfg.CoinGecko.RequestTimeoutMillis))
		if err := oracle.Warm(warmCtx); err != nil {
			logger.Warn("Не удалось предзагрузить цены, цены будут запрашиваться по требованию", "error", err)
		}
		warmCancel()
		aggOpts = append(aggOpts, service.WithPriceOracle(oracle))
	} else {
		logger.Info("Цены CoinGecko отключены")
	}
	aggregator := service.NewBalanceAggregator(clients, appLogger, aggOpts...)
	logger.Info("Агрегатор балансов инициализирован", "chains", aggregator.Chains())

	// Находки
	fileSink, err := findingstore.NewFileSink(cfg.Findings.Directory, zapLogger)
	if err != nil {
		logger.Fatal("Не удалось подготовить каталог находок", "error", err)
	}
	recent := findingstore.NewRecentFindings(cfg.Findings.RecentLimit)
	sinks := []port.FindingSink{fileSink, recent, findingstore.NewLogSink(appLogger)}

	deriver := derivation.NewStaticDeriver(cfg.Derivation.Addresses)
	if deriver.Len() == 0 {
		logger.Warn("derivation.addresses пуст: поиск будет выполнять раунды без запросов к сетям")
	}

	loop := service.NewSearchLoop(codec, deriver, aggregator, sinks, service.SearchConfig{
		WordCount:     cfg.Mnemonic.WordCount,
		Exclusions:    cfg.Mnemonic.Exclusions,
		MaxRounds:     cfg.Search.MaxRounds,
		RoundDelay:    millis(cfg.Search.RoundDelayMillis),
		ProgressEvery: cfg.Search.ProgressEvery,
	}, appLogger, m)

	if cfg.Search.Autostart {
		if err := loop.Start(appCtx); err != nil {
			logger.Fatal("Не удалось запустить поиск", "error", err)
		}
	}

	// Настройка и запуск HTTP сервера
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := restapi.NewHandler(appCtx, loop, recent, codec, aggregator, appLogger)
	router := restapi.SetupRouter(handler, zapLogger, cfg.Server.CORSOrigins, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("Запуск HTTP сервера", "адрес", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Не удалось запустить HTTP сервер", "ошибка", err)
		}
	}()

	// Ожидание сигнала завершения (например, Ctrl+C)
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	<-signalChan

	logger.Info("Получен сигнал завершения. Завершение работы...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при Graceful Shutdown HTTP сервера", "ошибка", err)
	}

	loop.Stop()
	cancel()
	loop.Wait()

	stats := loop.Stats()
	zapLogger.Info("Сервис остановлен", zap.Uint64("attempts", stats.Attempts), zap.Uint64("findings", stats.Findings))
}

// closeClients закрывает клиенты, держащие RPC соединения.
func closeClients(clients map[string]port.ChainClient) {
	for _, c := range clients {
		if closer, ok := c.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}
