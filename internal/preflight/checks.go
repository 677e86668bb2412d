package preflight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"profmatch/internal/rmp"
)

// providerProbe is the search text used to confirm the provider answers.
const providerProbe = "smith"

// Pinger is satisfied by store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDatabase verifies the database at path answers a ping.
func CheckDatabase(ctx context.Context, path string, db Pinger) Result {
	const name = "Database"
	if db == nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not opened)", path)}
	}
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", path)}
}

// CheckProvider runs one name search against schoolID. A single attempt is
// made with a 15-second timeout.
func CheckProvider(ctx context.Context, provider rmp.Searcher, schoolID string) Result {
	const name = "Rating provider"
	if provider == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	if schoolID == "" {
		return Result{Name: name, Detail: "missing school id"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	candidates, err := provider.SearchTeachers(checkCtx, providerProbe, schoolID)
	if err != nil {
		return Result{Name: name, Detail: summarizeProviderError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable (%d candidates for %q)", len(candidates), providerProbe)}
}

func summarizeProviderError(err error) string {
	var statusErr *rmp.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "auth failed (check auth_user and auth_password)"
		default:
			return fmt.Sprintf("search failed (%d)", statusErr.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "search timed out"
	}
	return fmt.Sprintf("search failed (%v)", err)
}
