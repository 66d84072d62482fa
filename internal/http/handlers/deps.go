package handlers

import (
	"staybook/internal/config"
	"staybook/internal/repos"
	"staybook/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth    *services.AuthService
	Props   *services.PropertyService
	Users   *services.UserService
	Cache   *services.PublicCache
	Editors *EditorRegistry

	AuthHandler      *AuthHandler
	DashboardHandler *DashboardHandler
	EditorHandler    *EditorHandler
	PublicHandler    *PublicHandler
	AdminHandler     *AdminHandler
	ProfileHandler   *ProfileHandler
	APIAuthHandler   *APIAuthHandler
	PropertyAPI      *PropertyAPIHandler
	UserAPI          *UserAPIHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	roleRepo := repos.NewRoleRepo(db)
	propRepo := repos.NewPropertyRepo(db)

	cache := services.NewPublicCache(cfg.PublicCacheTTL)
	authSvc := &services.AuthService{Users: userRepo, Tokens: services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)}
	propSvc := services.NewPropertyService(propRepo, cache)
	userSvc := services.NewUserService(userRepo, roleRepo, cache)
	editors := NewEditorRegistry(propSvc, cfg.EditorIdle)

	return &Deps{
		Auth:    authSvc,
		Props:   propSvc,
		Users:   userSvc,
		Cache:   cache,
		Editors: editors,

		AuthHandler:      &AuthHandler{Auth: authSvc, CookieSecure: cfg.CookieSecure},
		DashboardHandler: &DashboardHandler{Props: propSvc, Editors: editors},
		EditorHandler:    &EditorHandler{Editors: editors},
		PublicHandler:    &PublicHandler{Props: propSvc},
		AdminHandler:     &AdminHandler{Users: userSvc},
		ProfileHandler:   &ProfileHandler{Users: userSvc, CookieSecure: cfg.CookieSecure},
		APIAuthHandler:   &APIAuthHandler{Auth: authSvc},
		PropertyAPI:      &PropertyAPIHandler{Props: propSvc},
		UserAPI:          &UserAPIHandler{Users: userSvc},
	}
}

// Close stops the cache janitors.
func (d *Deps) Close() {
	d.Editors.Stop()
	d.Cache.Stop()
}
