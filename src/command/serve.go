package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memo-api/src/config"
	"memo-api/src/database"
	"memo-api/src/domain"
	"memo-api/src/infrastructure/memstore"
	"memo-api/src/infrastructure/repository"
	"memo-api/src/interface/handler"
	"memo-api/src/logger"
	"memo-api/src/routes"
	"memo-api/src/service"
	"memo-api/src/storage"
	"memo-api/src/usecase"
	"memo-api/src/validator"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// stores groups the repositories selected by DB_DRIVER
type stores struct {
	memos  domain.MemoRepository
	users  domain.UserRepository
	health handler.HealthChecker
	close  func() error
}

func openStores(ctx context.Context, cfg config.DatabaseConfig, log *logrus.Logger) (*stores, error) {
	if cfg.Driver == "memory" {
		log.Warn("インメモリストアを使用します。再起動するとデータは失われます")
		return &stores{
			memos: memstore.NewMemoStore(),
			users: memstore.NewUserStore(),
			close: func() error { return nil },
		}, nil
	}

	db, err := database.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		memos:  repository.NewMemoRepository(db, log),
		users:  repository.NewUserRepository(db, log),
		health: db,
		close:  db.Close,
	}, nil
}

// awsSession creates the shared S3 session on first use
type awsSession struct {
	cfg  config.S3Config
	sess *session.Session
}

func (a *awsSession) get() (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	sess, err := storage.NewSession(a.cfg)
	if err != nil {
		return nil, err
	}
	a.sess = sess
	return sess, nil
}

func newUploadStore(cfg config.UploadConfig, s3cfg config.S3Config, aws *awsSession, log *logrus.Logger) (storage.UploadStore, string, error) {
	switch cfg.Backend {
	case "s3":
		sess, err := aws.get()
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3UploadStore(s3manager.NewUploader(sess), s3cfg.MediaBucket, log), "", nil
	case "local", "":
		local, err := storage.NewLocalUploadStore(cfg.Directory, log)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}

func runServe(ctx context.Context) error {
	cfg := config.LoadConfig()

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Directory); err != nil {
		return fmt.Errorf("ロガーの初期化に失敗: %w", err)
	}
	defer logger.CloseLogger()
	log := logger.Log

	log.Info("アプリケーションを開始しています")
	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRETが設定されていません。トークンの発行は失敗します")
	}
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("ストアの初期化に失敗: %w", err)
	}
	defer st.close()

	aws := &awsSession{cfg: cfg.S3}
	uploads, uploadDir, err := newUploadStore(cfg.Upload, cfg.S3, aws, log)
	if err != nil {
		return fmt.Errorf("アップロードストアの初期化に失敗: %w", err)
	}

	var uploader *storage.LogUploader
	if cfg.Log.UploadEnabled {
		sess, err := aws.get()
		if err != nil {
			log.WithError(err).Error("S3アップローダーの初期化に失敗")
		} else {
			uploader = storage.NewLogUploader(s3.New(sess), cfg.S3.Bucket, log, logger.GetCurrentLogFile)
			go uploader.Run(ctx, cfg.Log.Directory, cfg.Log.UploadInterval, cfg.Log.UploadMaxAge)
		}
	}

	jwtService := service.NewJWTService(cfg.Auth)
	memoUsecase := usecase.NewMemoUsecase(st.memos, st.users)
	userUsecase := usecase.NewUserUsecase(st.users, service.NewPasswordHasher(bcrypt.DefaultCost), jwtService)
	v := validator.NewCustomValidator()

	router := routes.NewRouter(routes.Handlers{
		Memo:   handler.NewMemoHandler(memoUsecase, uploads, v, log, cfg.Upload.MaxSize),
		Admin:  handler.NewAdminHandler(memoUsecase, userUsecase, v, log),
		Auth:   handler.NewAuthHandler(userUsecase, v, log),
		Health: handler.NewHealthHandler(st.health, log),
	}, routes.Options{
		UploadDir:     uploadDir,
		AllowedOrigin: cfg.CORS.AllowedOrigin,
		RateLimit:     cfg.RateLimit,
		JWTService:    jwtService,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("サーバーを開始します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("サーバーの起動に失敗: %w", err)
		}
	case <-ctx.Done():
		log.Info("シャットダウンシグナルを受信しました")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("グレースフルシャットダウンに失敗")
	}

	// 最後のログアップロードを実行
	if uploader != nil {
		log.Info("最後のログアップロードを実行中...")
		if _, err := uploader.UploadOldLogs(shutdownCtx, cfg.Log.Directory, 0); err != nil {
			log.WithError(err).Error("最後のログアップロードに失敗")
		}
	}

	log.Info("サーバーを停止しました")
	return nil
}
