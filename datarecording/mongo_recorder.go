package datarecording

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/fatih/structs"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

// mongoRecorder records every table as a collection of a fresh database.
type mongoRecorder struct {
	client *mongo.Client
	db     *mongo.Database

	mu         sync.Mutex
	tables     map[string]*table
	batchSize  int
	entryCount int
}

func newMongoRecorder(uri string, batchSize int) (*mongoRecorder, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("datarecording: failed to connect to MongoDB: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("datarecording: failed to ping MongoDB: %w", err)
	}

	dbName := "gc_trace_" + xid.New().String()
	log.Printf("Trace is collected in database: %s\n", dbName)

	r := &mongoRecorder{
		client:    client,
		db:        client.Database(dbName),
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { r.Flush() })

	return r, nil
}

// mongoDocument converts an entry into a document keyed by field name.
func mongoDocument(entry any) bson.M {
	return bson.M(structs.Map(entry))
}

func (r *mongoRecorder) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	err = r.db.CreateCollection(ctx, tableName)
	if err != nil {
		panic(fmt.Errorf("failed to create collection %s: %w", tableName, err))
	}

	r.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
}

func (r *mongoRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()

	t, exists := r.tables[tableName]
	if !exists {
		r.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)
	r.entryCount++

	full := r.entryCount >= r.batchSize
	r.mu.Unlock()

	if full {
		r.Flush()
	}
}

func (r *mongoRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

func (r *mongoRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	for tableName, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		docs := make([]any, 0, len(t.entries))
		for _, entry := range t.entries {
			docs = append(docs, mongoDocument(entry))
		}

		_, err := r.db.Collection(tableName).InsertMany(ctx, docs)
		if err != nil {
			log.Panic(err)
		}

		t.entries = nil
	}

	r.entryCount = 0
}

func (r *mongoRecorder) Close() error {
	r.Flush()

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	return r.client.Disconnect(ctx)
}

var _ DataRecorder = (*mongoRecorder)(nil)
