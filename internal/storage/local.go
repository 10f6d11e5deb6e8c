package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"spectra-server/internal/utils"
)

// LocalStore 将对象写入本地目录，由静态路由对外提供访问。
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := utils.EnsurePathNotSymlink(root); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", root, err)
	}
	return &LocalStore{root: root, baseURL: baseURL}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(ctx context.Context, data []byte, ext, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := NewObjectName(ext)
	full, err := utils.SecureJoin(s.root, name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close blob: %w", err)
	}
	return JoinLocator(s.baseURL, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := ObjectNameFromLocator(locator)
	if err != nil {
		return err
	}
	full, err := utils.SecureJoin(s.root, name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
