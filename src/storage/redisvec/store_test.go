package redisvec

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"docsearch/src/core/embedding"
	"docsearch/src/core/search"
)

func newMockStore(t *testing.T) (*Store, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	c.EXPECT().Close().AnyTimes()
	return NewStoreForTest(c), c
}

// --- ResolveEmbedding ---

func TestResolveEmbedding_Success(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:manuals")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name":                 mock.RedisString("Manuals"),
			fieldEmbeddingProvider: mock.RedisString("ollama"),
			fieldEmbeddingModel:    mock.RedisString("nomic-embed-text"),
		})))

	cfg, err := s.ResolveEmbedding(context.Background(), "manuals")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "ollama" || cfg.Model != "nomic-embed-text" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestResolveEmbedding_MissingFingerprint(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:manuals")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name": mock.RedisString("Manuals"),
		})))

	cfg, err := s.ResolveEmbedding(context.Background(), "manuals")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != embedding.UnknownProvider || cfg.Model != embedding.UnknownProvider {
		t.Errorf("config = %+v, want unknown fallback", cfg)
	}
}

func TestResolveEmbedding_CollectionNotFound(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:nosuch")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{})))

	_, err := s.ResolveEmbedding(context.Background(), "nosuch")
	if err == nil {
		t.Fatal("expected error")
	}
	var backendErr *search.BackendError
	if !errors.As(err, &backendErr) {
		t.Errorf("expected BackendError, got %T", err)
	}
}

func TestResolveEmbedding_Error(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:manuals")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := s.ResolveEmbedding(context.Background(), "manuals")
	if err == nil {
		t.Fatal("expected error")
	}
}

// --- VectorSearch ---

func TestVectorSearch_Success(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "idx:manuals"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("doc:1"),
			mock.RedisArray(
				mock.RedisString(scoreField), mock.RedisString("0.1"),
				mock.RedisString(fieldContent), mock.RedisString("first chunk"),
				mock.RedisString(fieldDocumentName), mock.RedisString("civic-2019.pdf"),
				mock.RedisString(fieldPageNumber), mock.RedisString("12"),
				mock.RedisString(fieldChunkID), mock.RedisString("3"),
			),
			mock.RedisString("doc:2"),
			mock.RedisArray(
				mock.RedisString(scoreField), mock.RedisString("0.4"),
				mock.RedisString(fieldContent), mock.RedisString("second chunk"),
			),
		)))

	hits, err := s.VectorSearch(context.Background(), "manuals", []float32{0.1, 0.2}, 3, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}

	if hits[0].Text != "first chunk" || hits[1].Text != "second chunk" {
		t.Errorf("hit order: %q, %q", hits[0].Text, hits[1].Text)
	}
	if math.Abs(hits[0].Score-0.9) > 1e-9 || math.Abs(hits[1].Score-0.6) > 1e-9 {
		t.Errorf("scores = %v, %v, want 0.9, 0.6", hits[0].Score, hits[1].Score)
	}
	md := hits[0].Metadata
	if md.Source != "civic-2019.pdf" || md.Page != 12 || md.Chunk != 3 {
		t.Errorf("metadata = %+v", md)
	}
}

func TestVectorSearch_QueryShape(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "FT.SEARCH" || cmd[1] != "idx:manuals" {
				return false
			}
			if cmd[2] != "(@word_count:[20 +inf])=>[KNN 5 @vector $BLOB]" {
				return false
			}
			for _, arg := range cmd {
				if arg == "DIALECT" {
					return true
				}
			}
			return false
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	_, err := s.VectorSearch(context.Background(), "manuals", []float32{0.1}, 5, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVectorSearch_Empty(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	hits, err := s.VectorSearch(context.Background(), "manuals", []float32{0.1}, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("hits = %v, want empty slice", hits)
	}
}

func TestVectorSearch_Error(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := s.VectorSearch(context.Background(), "manuals", []float32{0.1}, 3, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	var backendErr *search.BackendError
	if !errors.As(err, &backendErr) {
		t.Errorf("expected BackendError, got %T", err)
	}
}

// --- ListCollections ---

func TestListCollections_Success(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0),
			mock.RedisArray(mock.RedisString("collection:manuals")),
		)))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:manuals")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name": mock.RedisString("Manuals"),
		})))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx:manuals", "*", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	collections, err := s.ListCollections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collections) != 1 {
		t.Fatalf("got %d collections, want 1", len(collections))
	}
	got := collections[0]
	if got.ID != "manuals" || got.Name != "Manuals" || got.Count != 42 {
		t.Errorf("collection = %+v", got)
	}
}

func TestListCollections_SkipsBrokenCollection(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0),
			mock.RedisArray(
				mock.RedisString("collection:broken"),
				mock.RedisString("collection:manuals"),
			),
		)))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:broken")).
		Return(mock.ErrorResult(context.DeadlineExceeded))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:manuals")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name": mock.RedisString("Manuals"),
		})))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx:manuals", "*", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(7))))

	collections, err := s.ListCollections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collections) != 1 || collections[0].ID != "manuals" {
		t.Errorf("collections = %+v, want only manuals", collections)
	}
}

func TestListCollections_SkipsFailedCount(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0),
			mock.RedisArray(mock.RedisString("collection:manuals")),
		)))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:manuals")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name": mock.RedisString("Manuals"),
		})))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx:manuals", "*", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisError("no such index")))

	collections, err := s.ListCollections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collections) != 0 {
		t.Errorf("collections = %+v, want none", collections)
	}
}

func TestListCollections_DefaultsNameToID(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0),
			mock.RedisArray(mock.RedisString("collection:manuals")),
		)))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "collection:manuals")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			fieldEmbeddingProvider: mock.RedisString("ollama"),
		})))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx:manuals", "*", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(1))))

	collections, err := s.ListCollections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collections) != 1 || collections[0].Name != "manuals" {
		t.Errorf("collections = %+v, want name defaulted to id", collections)
	}
}

func TestListCollections_ScanMultiPage(t *testing.T) {
	s, c := newMockStore(t)

	first := true
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		DoAndReturn(func(_ context.Context, _ rueidis.Completed) rueidis.RedisResult {
			if first {
				first = false
				return mock.Result(mock.RedisArray(
					mock.RedisInt64(42),
					mock.RedisArray(mock.RedisString("collection:a")),
				))
			}
			return mock.Result(mock.RedisArray(
				mock.RedisInt64(0),
				mock.RedisArray(mock.RedisString("collection:b")),
			))
		}).Times(2)
	for _, id := range []string{"a", "b"} {
		c.EXPECT().
			Do(gomock.Any(), mock.Match("HGETALL", "collection:"+id)).
			Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
				"name": mock.RedisString(id),
			})))
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.SEARCH", "idx:"+id, "*", "LIMIT", "0", "0")).
			Return(mock.Result(mock.RedisArray(mock.RedisInt64(1))))
	}

	collections, err := s.ListCollections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(collections) != 2 {
		t.Errorf("got %d collections, want 2", len(collections))
	}
}

func TestListCollections_ScanError(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := s.ListCollections(context.Background())
	if !errors.Is(err, search.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

// --- helpers ---

func TestHitFromFieldsDefaults(t *testing.T) {
	hit := hitFromFields(map[string]string{fieldContent: "text only"})
	if hit.Text != "text only" {
		t.Errorf("text = %q", hit.Text)
	}
	if hit.Score != 0 {
		t.Errorf("score = %v, want 0", hit.Score)
	}
	if hit.Metadata.Page != 0 || hit.Metadata.Source != "" {
		t.Errorf("metadata = %+v", hit.Metadata)
	}
}

func TestHitFromFieldsBadNumbers(t *testing.T) {
	hit := hitFromFields(map[string]string{
		fieldContent:    "x",
		fieldPageNumber: "not-a-number",
		scoreField:      "garbage",
	})
	if hit.Metadata.Page != 0 {
		t.Errorf("page = %d, want 0", hit.Metadata.Page)
	}
	if hit.Score != 0 {
		t.Errorf("score = %v, want 0", hit.Score)
	}
}

func TestVectorToBytes(t *testing.T) {
	b := vectorToBytes([]float32{1.0, 2.0, 3.0})
	if len(b) != 12 {
		t.Fatalf("got %d bytes, want 12", len(b))
	}
}
