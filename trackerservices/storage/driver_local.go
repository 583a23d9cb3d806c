package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/vault"
	"github.com/spf13/afero"
)

// DriverLocal keeps objects on an afero filesystem and serves signed links
// through its own ServeHTTP.
type DriverLocal struct {
	fs           afero.Fs
	vault        vault.Vault
	BaseEndpoint string
}

// NewDriverLocal stores objects in fs, usually an afero.NewBasePathFs rooted at
// the storage directory.
func NewDriverLocal(fs afero.Fs, vault vault.Vault) (*DriverLocal, error) {
	return &DriverLocal{
		fs:    fs,
		vault: vault,
	}, nil
}

func (driver *DriverLocal) clean(filePath string) string {
	return path.Clean("/" + filePath)
}

func (driver *DriverLocal) Get(ctx context.Context, filePath string) (io.ReadCloser, error) {
	return driver.fs.Open(driver.clean(filePath))
}

func (driver *DriverLocal) Put(ctx context.Context, filePath string, payload io.Reader) error {
	filePath = driver.clean(filePath)
	if err := driver.fs.MkdirAll(path.Dir(filePath), 0o755); err != nil {
		return err
	}

	file, err := driver.fs.Create(filePath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, payload); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

func (driver *DriverLocal) Delete(ctx context.Context, filePath string) error {
	if err := driver.fs.Remove(driver.clean(filePath)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (driver *DriverLocal) Exists(ctx context.Context, filePath string) (bool, error) {
	return afero.Exists(driver.fs, driver.clean(filePath))
}

func (driver *DriverLocal) IsReady(ctx context.Context) error {
	_, err := driver.fs.Stat("/")
	return err
}

type signedLink struct {
	ExpiresAt time.Time
	Path      string
}

func (driver *DriverLocal) PreSignedURL(ctx context.Context, filePath string, expiration time.Duration) (string, error) {
	message, err := json.Marshal(signedLink{
		ExpiresAt: time.Now().Add(expiration),
		Path:      driver.clean(filePath),
	})
	if err != nil {
		return "", err
	}

	signature, err := driver.vault.Encrypt(message)
	if err != nil {
		return "", err
	}

	return driver.BaseEndpoint + "/_presigned?" + url.Values{
		"signature": []string{string(signature)},
	}.Encode(), nil
}

func (driver *DriverLocal) PublicLink(ctx context.Context, filePath string) (string, error) {
	return driver.BaseEndpoint + driver.clean(filePath), nil
}

// ServeHTTP streams the object named by a valid, unexpired signature.
func (driver *DriverLocal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	message, err := driver.vault.Decrypt([]byte(r.URL.Query().Get("signature")))
	if err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	link := signedLink{}
	if err := json.Unmarshal(message, &link); err != nil || time.Now().After(link.ExpiresAt) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	reader, err := driver.Get(r.Context(), link.Path)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	_, _ = io.Copy(w, reader)
}
