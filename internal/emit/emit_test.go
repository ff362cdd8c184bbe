package emit

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
)

func items(ids ...string) []*kontent.ItemNode {
	out := make([]*kontent.ItemNode, 0, len(ids))
	for _, id := range ids {
		out = append(out, &kontent.ItemNode{
			ID:        id,
			System:    kontent.ItemSystem{Codename: "c-" + id},
			Elements:  map[string]kontent.Element{},
			Internal:  kontent.Internal{Type: "KontentItemArticle"},
			Partition: "default",
		})
	}
	return out
}

func TestEmit_CreatesInOrder(t *testing.T) {
	sink := &MemorySink{}
	res := Emit(context.Background(), NewEmitter(sink), ItemBatch("default"), items("a", "b", "c"))

	require.NoError(t, res.Err)
	require.False(t, res.Aborted())
	require.Equal(t, 3, res.Created)
	require.Equal(t, []string{"a", "b", "c"}, sink.IDs())
	for _, n := range sink.Nodes() {
		require.Len(t, n.NodeDigest(), 64)
	}
}

func TestEmit_AbortsRestOfBatch(t *testing.T) {
	sink := &MemorySink{FailOn: "b", Err: stderrors.New("host refused node")}
	e := NewEmitter(sink)

	res := Emit(context.Background(), e, ItemBatch("default"), items("a", "b", "c"))
	require.True(t, res.Aborted())
	require.Equal(t, 1, res.Created)
	require.Equal(t, 3, res.Total)
	require.True(t, errors.HasCategory(res.Err, errors.CategoryEmission))
	require.Equal(t, []string{"a"}, sink.IDs())

	next := Emit(context.Background(), e, ItemBatch("cz"), items("d"))
	require.NoError(t, next.Err)
	require.Equal(t, []string{"a", "d"}, sink.IDs())
}

func TestEmit_NilNodeAbortsBatch(t *testing.T) {
	sink := &MemorySink{}
	ab := items("a", "b")
	nodes := []*kontent.ItemNode{ab[0], nil, ab[1]}

	res := Emit(context.Background(), NewEmitter(sink), ItemBatch("default"), nodes)
	require.True(t, res.Aborted())
	require.Equal(t, 1, res.Created)
	require.True(t, errors.HasCategory(res.Err, errors.CategoryStructure))
	require.Equal(t, []string{"a"}, sink.IDs())
}

func TestEmit_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &MemorySink{}
	res := Emit(ctx, NewEmitter(sink), BatchTypes, items("a"))
	require.ErrorIs(t, res.Err, context.Canceled)
	require.Empty(t, sink.IDs())
}

func TestJSONDirSink(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewJSONDirSink(filepath.Join(dir, "nodes"))
	require.NoError(t, err)

	node := items("a")[0]
	node.Elements["body"] = kontent.Element{Name: "body", Type: kontent.ElementRichText, Relation: kontent.RelationField{}}
	res := Emit(context.Background(), NewEmitter(sink), BatchTypes, []*kontent.ItemNode{node})
	require.NoError(t, res.Err)

	data, err := os.ReadFile(filepath.Join(dir, "nodes", "KontentItemArticle", "a.json"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "a", decoded["id"])
	body := decoded["elements"].(map[string]any)["body"].(map[string]any)
	require.Equal(t, []any{}, body["linked_items___NODE"])
	require.NotEmpty(t, decoded["internal"].(map[string]any)["contentDigest"])
}

func TestSQLiteSink_Upserts(t *testing.T) {
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "nodes.db"))
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	ctx := context.Background()
	e := NewEmitter(sink)
	require.NoError(t, Emit(ctx, e, ItemBatch("default"), items("a", "b")).Err)

	changed := items("a")
	changed[0].System.Name = "renamed"
	require.NoError(t, Emit(ctx, e, ItemBatch("default"), changed).Err)

	count, err := sink.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	stored, err := sink.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "KontentItemArticle", stored.Type)
	require.Equal(t, "c-a", stored.Codename)
	require.Equal(t, "default", stored.Language)
	require.Len(t, stored.Digest, 64)
	require.Contains(t, string(stored.Body), "renamed")

	_, err = sink.Get(ctx, "missing")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}
