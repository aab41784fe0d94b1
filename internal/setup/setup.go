package setup

import (
	"github.com/whisperbox-dev/whisperbox/internal/config"
	"github.com/whisperbox-dev/whisperbox/internal/handler"
	"github.com/whisperbox-dev/whisperbox/internal/hasher"
	"github.com/whisperbox-dev/whisperbox/internal/mail"
	"github.com/whisperbox-dev/whisperbox/internal/service"
	"github.com/whisperbox-dev/whisperbox/internal/storage/pg"
	"github.com/whisperbox-dev/whisperbox/internal/token"
	"github.com/whisperbox-dev/whisperbox/internal/utils"
	"github.com/whisperbox-dev/whisperbox/internal/verify"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage *pg.Storage
	Handler *handler.Handler
	Jwt     token.TokenService
	Config  *config.Config
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	mailer := mail.New(&cfg.Private.Email)
	jwt := token.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, mailer, jwt, hasher.New(cfg.BcryptCost()), verify.NewGenerator(), &utils.CredentialValidator{})
	mailbox := service.NewMailbox(storage, &utils.MessageValidator{})

	h := handler.New(auth, mailbox, cfg)

	return &Dependencies{
		Storage: storage,
		Handler: h,
		Jwt:     jwt,
		Config:  cfg,
	}, nil
}
