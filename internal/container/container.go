package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"go-auth-service/config"
	"go-auth-service/pkg/hashing"
	"go-auth-service/pkg/token"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	tokenManager   *token.Manager
	passwordHasher *hashing.Hasher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }

func SetTokens(m *token.Manager) { tokenManager = m }
func GetTokens() *token.Manager  { return tokenManager }

func SetHasher(h *hashing.Hasher) { passwordHasher = h }
func GetHasher() *hashing.Hasher {
	if passwordHasher != nil {
		return passwordHasher
	}
	return hashing.New()
}
