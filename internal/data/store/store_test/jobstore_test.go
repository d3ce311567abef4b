package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goktugoner23/allinone-external-sub002/internal/config"
	"github.com/goktugoner23/allinone-external-sub002/internal/data/redisStore"
	"github.com/goktugoner23/allinone-external-sub002/internal/data/store"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/jobModel"
	"github.com/goktugoner23/allinone-external-sub002/internal/domain/ragModel"
	"github.com/redis/go-redis/v9"
)

func testStore(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, redisStore.NewTestStore(client)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internal := testStore(t)
	jobStore := store.TestJobStore(internal)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:     jobID,
		Type:   jobModel.JobTypeIngest,
		Status: jobModel.JobStatusRunning,
		Payload: jobModel.JobPayload{
			Document: ragModel.Document{
				Id:       "doc-1",
				Content:  "redis mocking notes",
				Metadata: ragModel.DocumentMetadata{Domain: ragModel.DomainGeneral},
			},
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrieved, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrieved.Payload.Document.Content != testJob.Payload.Document.Content {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrieved.Payload.Document.Content, testJob.Payload.Document.Content)
		}
		if retrieved.Type != jobModel.JobTypeIngest {
			t.Errorf("job type = %s, want Ingest", retrieved.Type)
		}
	})

	t.Run("Jobs expire", func(t *testing.T) {
		mr.FastForward(config.RedisJobStoreTTL + 1)
		if _, found := jobStore.GetJob(ctx, jobID); found {
			t.Error("job survived past its TTL")
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisDocumentRegistry_Lifecycle(t *testing.T) {
	_, internal := testStore(t)
	registry := store.TestDocumentRegistry(internal)
	ctx := context.Background()

	records := []ragModel.DocumentRecord{
		{Id: "doc-1", Domain: ragModel.DomainTrading, ChunkCount: 3},
		{Id: "doc-2", Domain: ragModel.DomainFitness, ChunkCount: 1},
	}
	for _, r := range records {
		if err := registry.SaveDocument(ctx, r); err != nil {
			t.Fatalf("SaveDocument(%s): %v", r.Id, err)
		}
	}

	t.Run("Get returns saved record", func(t *testing.T) {
		record, found := registry.GetDocument(ctx, "doc-1")
		if !found {
			t.Fatal("doc-1 not found")
		}
		if record.Domain != ragModel.DomainTrading || record.ChunkCount != 3 {
			t.Errorf("record = %+v", record)
		}
	})

	t.Run("List returns all records", func(t *testing.T) {
		all, err := registry.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("got %d records, want 2", len(all))
		}
	})

	t.Run("Save overwrites by id", func(t *testing.T) {
		updated := records[0]
		updated.ChunkCount = 7
		if err := registry.SaveDocument(ctx, updated); err != nil {
			t.Fatalf("SaveDocument: %v", err)
		}
		record, _ := registry.GetDocument(ctx, "doc-1")
		if record.ChunkCount != 7 {
			t.Errorf("chunk count = %d, want 7", record.ChunkCount)
		}
	})

	t.Run("Delete removes record", func(t *testing.T) {
		if err := registry.DeleteDocument(ctx, "doc-2"); err != nil {
			t.Fatalf("DeleteDocument: %v", err)
		}
		if _, found := registry.GetDocument(ctx, "doc-2"); found {
			t.Error("doc-2 still present after delete")
		}
	})
}
