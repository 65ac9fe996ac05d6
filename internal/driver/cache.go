package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"stencil/internal/source"
	"stencil/internal/token"
)

// Digest is a SHA-256 expansion key.
type Digest [sha256.Size]byte

// Bump when Payload changes shape.
const cacheSchemaVersion uint16 = 1

// Cache persists expansion outputs keyed by a digest of the input content
// and the entry identity. Safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// CachedToken is one output token in cached form. Spans keep byte offsets
// only; the file identity is re-bound on load.
type CachedToken struct {
	Kind  uint8
	Start uint32
	End   uint32
	Text  string
}

// Payload is the cached result of one expansion.
type Payload struct {
	Schema     uint16
	Entry      string
	SourceHash Digest
	Tokens     []CachedToken
}

// OpenCache initializes a cache under the user cache directory, honoring
// XDG_CACHE_HOME.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt initializes a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Subdirectory keeps the cache root listable.
	return filepath.Join(c.dir, "expansions", hexKey+".mp")
}

// Put writes a payload atomically: temp file in the final directory, then
// rename.
func (c *Cache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or a schema mismatch is a miss, not
// an error.
func (c *Cache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates everything, useful after schema changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// ExpansionKey digests the input content together with the entry identity
// and configuration, so a renamed entry or a changed seed misses cleanly.
func ExpansionKey(content, args []byte, entryName string, kind, seed uint8) Digest {
	h := sha256.New()
	var buf [4]byte
	binary.LittleEndian.PutUint16(buf[:2], cacheSchemaVersion)
	h.Write(buf[:2])

	// Length-prefix the variable parts so boundaries cannot collide.
	for _, part := range [][]byte{[]byte(entryName), args} {
		partLen, err := safecast.Conv[uint32](len(part))
		if err != nil {
			partLen = 0
		}
		binary.LittleEndian.PutUint32(buf[:], partLen)
		h.Write(buf[:])
		h.Write(part)
	}
	h.Write([]byte{kind, seed})
	h.Write(content)

	var d Digest
	h.Sum(d[:0])
	return d
}

// SourceDigest hashes raw input content.
func SourceDigest(content []byte) Digest {
	return sha256.Sum256(content)
}

func toPayload(entry string, srcHash Digest, tokens token.Stream) *Payload {
	p := &Payload{
		Schema:     cacheSchemaVersion,
		Entry:      entry,
		SourceHash: srcHash,
		Tokens:     make([]CachedToken, len(tokens)),
	}
	for i, t := range tokens {
		p.Tokens[i] = CachedToken{
			Kind:  uint8(t.Kind),
			Start: t.Span.Start,
			End:   t.Span.End,
			Text:  t.Text,
		}
	}
	return p
}

// fromPayload rebinds cached tokens to the file they were regenerated for.
// FileIDs are per-process and never cached.
func fromPayload(p *Payload, file source.FileID) token.Stream {
	if p == nil {
		return nil
	}
	out := make(token.Stream, len(p.Tokens))
	for i, t := range p.Tokens {
		sp := source.Span{}
		if t.Start != 0 || t.End != 0 {
			sp = source.Span{File: file, Start: t.Start, End: t.End}
		}
		out[i] = token.Token{
			Kind: token.Kind(t.Kind),
			Span: sp,
			Text: t.Text,
		}
	}
	return out
}
