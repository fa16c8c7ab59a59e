package providers

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/samber/do/v2"

	"github.com/tallyapp/tally-server/internal/config"
	"github.com/tallyapp/tally-server/internal/domain"
	"github.com/tallyapp/tally-server/internal/identity"
	"github.com/tallyapp/tally-server/internal/logger"
)

// ProvideVerifier provides the bearer token verifier. Tokens come from the
// configured token table file; with no file configured the server starts with
// an empty table and rejects every request, which is the safe default until a
// real identity provider is wired in.
func ProvideVerifier(i do.Injector) (identity.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	users := map[string]domain.User{}
	if cfg.Auth.TokensPath != "" {
		loaded, err := loadTokenTable(cfg.Auth.TokensPath)
		if err != nil {
			return nil, fmt.Errorf("load token table: %w", err)
		}
		users = loaded
		log.Info("Token table loaded", "path", cfg.Auth.TokensPath, "entries", len(users))
	} else {
		log.Warn("No token table configured - all requests will be rejected")
	}

	return identity.NewStaticVerifier(users), nil
}

// loadTokenTable reads a token table file. Each line maps one bearer token to
// a user: "token:user_id[:display_name]". Blank lines and # comments are
// skipped.
func loadTokenTable(path string) (map[string]domain.User, error) {
	file, err := os.Open(path) //#nosec G304 -- Token file path from config is expected
	if err != nil {
		return nil, err
	}
	defer file.Close()

	users := make(map[string]domain.User)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid token entry at line %d", lineNum)
		}

		user := domain.User{ID: parts[1]}
		if len(parts) == 3 {
			user.DisplayName = parts[2]
		}
		users[parts[0]] = user
	}

	return users, scanner.Err()
}
