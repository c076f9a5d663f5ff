package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/homorunner/ASG-benchmark/internal/bench"
	appcfg "github.com/homorunner/ASG-benchmark/internal/config"
	"github.com/homorunner/ASG-benchmark/internal/game"
	"github.com/homorunner/ASG-benchmark/internal/obslog"
	"github.com/homorunner/ASG-benchmark/internal/progress"
	"github.com/homorunner/ASG-benchmark/internal/promptcat"
	"github.com/homorunner/ASG-benchmark/internal/puzzle"
	"github.com/homorunner/ASG-benchmark/internal/render"
	"github.com/homorunner/ASG-benchmark/internal/report"
	"github.com/homorunner/ASG-benchmark/internal/solver"
)

func main() {
	var (
		model      = flag.String("model", "", "model name in the OpenAI API (overrides BENCH_MODEL)")
		puzzleFile = flag.String("puzzles", "data/sample_puzzles.json", "puzzle collection file to load")
		workers    = flag.Int("workers", 16, "number of workers for parallel evaluation")
		passes     = flag.Int("passes", 1, "number of passes to run for each puzzle")
		outPath    = flag.String("out", "benchmark_results.json", "result export path")
		boardsDir  = flag.String("boards", "", "directory for board snapshot PNGs (chess puzzles only; empty disables)")
		listenAddr = flag.String("listen", "", "address for the live progress websocket (empty disables)")
		store      = flag.Bool("store", false, "persist the run to Postgres (DATABASE_URL)")
		skipProbe  = flag.Bool("skip-probe", false, "skip the API reachability check")
	)
	flag.Parse()

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if *model != "" {
		cfg.Model = *model
	}

	coll, err := puzzle.LoadFile(*puzzleFile)
	if err != nil {
		log.Fatalf("puzzle load error: %v", err)
	}
	fmt.Printf("Loaded %d puzzles from collection: %s\n", len(coll.Puzzles), coll.Name)

	prompts, err := promptcat.New(cfg.PromptDir)
	if err != nil {
		log.Fatalf("prompt catalog error: %v", err)
	}

	var cache *solver.Cache
	if cfg.RedisURL != "" {
		cache, err = solver.NewCache(cfg.RedisURL, time.Duration(cfg.CacheTTLSec)*time.Second, logger)
		if err != nil {
			log.Fatalf("solver cache init error: %v", err)
		}
		defer cache.Close()
	}

	llm, err := solver.NewOpenAI(solver.OpenAIConfig{
		BaseURL:     cfg.OpenAIBaseURL,
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.Model,
		Temperature: cfg.SolverTemperature,
		Timeout:     time.Duration(cfg.SolverTimeoutSec) * time.Second,
		Prompts:     prompts,
		Cache:       cache,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("solver init error: %v", err)
	}
	fmt.Printf("Using Solver with model: %s\n", cfg.Model)

	ctx := context.Background()

	if !*skipProbe {
		fmt.Println("Testing API reachability...")
		probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		response, err := llm.Probe(probeCtx)
		cancel()
		if err != nil {
			log.Fatalf("API reachability test failed: %v\nPlease check your OPENAI_API_KEY and OPENAI_BASE_URL environment variables.", err)
		}
		fmt.Printf("API test successful. Response: %s\n", response)
	}

	opts := []bench.Option{bench.WithLogger(logger)}

	var hub *progress.Hub
	if *listenAddr != "" {
		hub = progress.NewHub(logger)
		opts = append(opts, bench.WithScoreHook(hub.ScoreHook()))
		srv := &http.Server{Addr: *listenAddr, Handler: hub}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("progress server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
		defer hub.Close()
		fmt.Printf("Live progress available on ws://%s\n", *listenAddr)
	}

	runner := bench.NewRunner(game.NewCatalog(), opts...)

	fmt.Printf("Using %d workers for parallel evaluation\n", *workers)
	fmt.Printf("Running %d passes for each test case\n", *passes)
	startedAt := time.Now()
	result := runner.RunPasses(ctx, coll, llm, *workers, *passes)
	finishedAt := time.Now()

	fmt.Println()
	fmt.Print(report.Summary(result))

	if err := report.WriteJSON(*outPath, result); err != nil {
		logger.Warn("could not export results", zap.Error(err))
	} else {
		fmt.Printf("\nResults exported to %s\n", *outPath)
	}

	if *store {
		repo, err := report.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("repository init error: %v", err)
		}
		defer repo.Close()
		id, err := repo.SaveRun(ctx, result, coll.Name, cfg.Model, startedAt, finishedAt)
		if err != nil {
			logger.Error("could not persist run", zap.Error(err))
		} else {
			fmt.Printf("Run persisted with id %d\n", id)
		}
	}

	if *boardsDir != "" {
		if err := renderBoards(ctx, coll, *boardsDir); err != nil {
			logger.Warn("board rendering failed", zap.Error(err))
		}
	}
}

// renderBoards writes one PNG per chess puzzle's first board state.
func renderBoards(ctx context.Context, coll *puzzle.Collection, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	renderer := render.NewBoardRenderer()
	for _, p := range coll.Puzzles {
		if p.GameType != game.Chess || len(p.GameStates) == 0 {
			continue
		}
		img, err := renderer.RenderPNG(ctx, p.GameStates[0])
		if err != nil {
			return fmt.Errorf("render %s: %w", p.ID, err)
		}
		path := filepath.Join(dir, p.ID+".png")
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
