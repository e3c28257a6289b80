package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quality-audit/internal/router"

	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web form server",
	Long: `Start the quality issue form server.
The server listens on the configured address and port and serves the
HTML form, the JSON API and the export downloads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// 2. 初始化依赖
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		// 3. 设置路由
		r, err := router.SetupRouter(router.Deps{
			Config:   cfg,
			DB:       a.db,
			Service:  a.svc,
			Sessions: a.sessions,
			Log:      a.log,
		})
		if err != nil {
			return fmt.Errorf("setup router: %w", err)
		}

		// 4. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Infof("server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("run server: %w", err)
			}
			return nil
		case <-quit:
		}

		a.log.Info("shutting down server...")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		a.log.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
