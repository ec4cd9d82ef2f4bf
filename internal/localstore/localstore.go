package localstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Storeはブラウザのlocalstorage相当。1キー = 1つのJSONファイル。
// ゲストカートとセッションの永続化に使う。
type Store struct {
	dir    string
	logger zerolog.Logger
}

// DI
func New(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Getはキーの値をvへデコードする。
// キーが無ければ(false, nil)。壊れたJSONは空扱い（fail-open）で警告ログのみ。
func (s *Store) Get(key string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn().Str("key", key).Err(err).Msg("localstore: corrupt entry, treating as empty")
		return false, nil
	}
	return true, nil
}

// SetはvをJSONにしてキーへ書き込む。
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o600)
}

// Removeはキーを削除する。無ければ何もしない。
func (s *Store) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
