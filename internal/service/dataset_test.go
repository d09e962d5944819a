package service

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "sheetline/internal/db"
	"sheetline/internal/db/repository"
	"sheetline/internal/domain"
	"sheetline/internal/storage"
)

func setupDataset(t *testing.T) (*DatasetService, *LineageService) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	files := repository.NewFileRepo(writeDB)
	edges := repository.NewEdgeRepo(writeDB)
	content, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	lineage := NewLineageService(files, edges, testLogger())
	return NewDatasetService(files, content, lineage, testLogger()), lineage
}

const customersCSV = "name,age,state\nalice,30,CA\nbob,25,NY\ncarol,41,CA\n"

func TestDataset_UploadAndPreview(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	node, err := svc.Upload(ctx, alice(), "customers.csv", []byte(customersCSV))
	require.NoError(t, err)
	assert.Equal(t, "customers.csv", node.DisplayName)

	ds, err := svc.Preview(ctx, alice(), node.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "state"}, ds.Columns)
	assert.Len(t, ds.Rows, 2)
}

func TestDataset_UploadRejectsMalformed(t *testing.T) {
	svc, _ := setupDataset(t)

	_, err := svc.Upload(context.Background(), alice(), "bad.csv", []byte("a,b\n\"open,1\n"))
	var malformed *domain.MalformedInputError
	require.ErrorAs(t, err, &malformed)

	_, err = svc.Upload(context.Background(), alice(), "", []byte(customersCSV))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDataset_UploadSniffsDelimiter(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	node, err := svc.Upload(ctx, alice(), "semi.csv", []byte("a;b\n1;2\n"))
	require.NoError(t, err)

	ds, err := svc.Preview(ctx, alice(), node.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
}

func TestDataset_FilterDerivesFileAndRecordsLineage(t *testing.T) {
	svc, lineage := setupDataset(t)
	ctx := context.Background()

	src, err := svc.Upload(ctx, alice(), "customers.csv", []byte(customersCSV))
	require.NoError(t, err)

	outcome, err := svc.Filter(ctx, alice(), src.ID,
		map[string]string{"state": "=CA", "age": ">28"}, "ca-adults.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Retained)
	assert.Equal(t, 3, outcome.Total)
	assert.Zero(t, outcome.SoftErrors)

	ds, err := svc.Preview(ctx, alice(), outcome.Node.ID, 0)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "alice", ds.Rows[0]["name"])
	assert.Equal(t, "carol", ds.Rows[1]["name"])

	graph, err := lineage.Direct(ctx, alice(), src.ID)
	require.NoError(t, err)
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, src.ID, graph.Edges[0].SourceID)
	assert.Equal(t, outcome.Node.ID, graph.Edges[0].TargetID)
	assert.Equal(t, domain.RelationFilter, graph.Edges[0].RelationType)
}

func TestDataset_FilterValidatesBeforeProcessing(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	src, err := svc.Upload(ctx, alice(), "customers.csv", []byte(customersCSV))
	require.NoError(t, err)

	_, err = svc.Filter(ctx, alice(), src.ID, map[string]string{"age": "~30"}, "out.csv")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Filter(ctx, alice(), src.ID, map[string]string{"age": ">30"}, "")
	require.ErrorAs(t, err, &verr)
}

func TestDataset_FilterCountsSoftErrors(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	src, err := svc.Upload(ctx, alice(), "customers.csv", []byte(customersCSV))
	require.NoError(t, err)

	// ">oops" parses but errors per-row on numeric cells; rows fail closed.
	outcome, err := svc.Filter(ctx, alice(), src.ID, map[string]string{"age": ">oops"}, "none.csv")
	require.NoError(t, err)
	assert.Zero(t, outcome.Retained)
	assert.Equal(t, 3, outcome.SoftErrors)
}

func TestDataset_Crosstab(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	raw := "state,plan\nCA,gold\nCA,silver\nNY,gold\n"
	src, err := svc.Upload(ctx, alice(), "plans.csv", []byte(raw))
	require.NoError(t, err)

	res, err := svc.Crosstab(ctx, alice(), src.ID, "state", "plan")
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.GrandTotal)
	assert.Equal(t, int64(2), res.RowTotals["CA"])
	assert.InDelta(t, 50.0, res.RowPct["CA"]["gold"], 1e-9)

	_, err = svc.Crosstab(ctx, alice(), src.ID, "state", "nope")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDataset_Export(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	src, err := svc.Upload(ctx, alice(), "customers.csv", []byte(customersCSV))
	require.NoError(t, err)

	name, data, err := svc.Export(ctx, alice(), src.ID)
	require.NoError(t, err)
	assert.Equal(t, "customers.csv", name)
	assert.Equal(t, customersCSV, string(data))
}

func TestDataset_OwnershipIsUniformNotFound(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	src, err := svc.Upload(ctx, alice(), "customers.csv", []byte(customersCSV))
	require.NoError(t, err)

	var notFound *domain.NotFoundError
	_, err = svc.Preview(ctx, bob(), src.ID, 0)
	require.ErrorAs(t, err, &notFound)
	_, err = svc.Preview(ctx, bob(), "no-such-id", 0)
	require.ErrorAs(t, err, &notFound)
}

func TestDataset_Delete(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	src, err := svc.Upload(ctx, alice(), "customers.csv", []byte(customersCSV))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice(), src.ID))

	var notFound *domain.NotFoundError
	_, err = svc.Preview(ctx, alice(), src.ID, 0)
	require.ErrorAs(t, err, &notFound)
}

func TestDataset_List(t *testing.T) {
	svc, _ := setupDataset(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, alice(), "one.csv", []byte(customersCSV))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, bob(), "theirs.csv", []byte(customersCSV))
	require.NoError(t, err)

	nodes, total, err := svc.List(ctx, alice(), domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, nodes, 1)
	assert.Equal(t, "one.csv", nodes[0].DisplayName)
}
