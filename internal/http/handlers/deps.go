package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"edeng/internal/config"
	"edeng/internal/repos"
	"edeng/internal/services"
	"edeng/internal/ypay"
)

type Deps struct {
	Auth *services.AuthService

	JewelHandler *JewelHandler
	AuthHandler  *AuthHandler
	YpayHandler  *YpayHandler
}

func NewDeps(db *mongo.Database, cfg config.Config) *Deps {
	jewelRepo := repos.NewJewelRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(jewelRepo)
	authSvc := services.NewAuthService(userRepo, cfg.AdminUser, cfg.AdminPass, cfg.TokenSecret, cfg.TokenTTLMin)
	mailer := services.NewMailerService(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
	gateway := ypay.NewClient(cfg.YpayBaseURL, cfg.YpayClientID, cfg.YpayClientSecret, cfg.SiteURL)

	return &Deps{
		Auth:         authSvc,
		JewelHandler: &JewelHandler{Catalog: catalogSvc},
		AuthHandler:  &AuthHandler{Auth: authSvc},
		YpayHandler:  &YpayHandler{Gateway: gateway, Mailer: mailer, AdminMail: cfg.MailAdmin},
	}
}
