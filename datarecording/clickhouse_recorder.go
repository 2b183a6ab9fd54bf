package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/fatih/structs"
	"github.com/tebeka/atexit"
)

// clickHouseRecorder records into a ClickHouse server. Tables are created
// from the field kinds of the sample entry.
type clickHouseRecorder struct {
	conn      clickhouse.Conn
	mu        sync.Mutex
	batchSize int

	tables     map[string]*table
	entryCount int
}

func newClickHouseRecorder(dsn string, batchSize int) (*clickHouseRecorder, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("datarecording: invalid ClickHouse DSN: %w", err)
	}

	opts.DialTimeout = 30 * time.Second

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("datarecording: failed to connect to ClickHouse: %w", err)
	}

	err = conn.Ping(context.Background())
	if err != nil {
		return nil, fmt.Errorf("datarecording: failed to ping ClickHouse: %w", err)
	}

	r := &clickHouseRecorder{
		conn:      conn,
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { r.Flush() })

	return r, nil
}

// clickHouseColumnType maps a field kind onto a ClickHouse column type.
func clickHouseColumnType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "Bool"
	case reflect.Int8:
		return "Int8"
	case reflect.Int16:
		return "Int16"
	case reflect.Int32:
		return "Int32"
	case reflect.Int, reflect.Int64:
		return "Int64"
	case reflect.Uint8:
		return "UInt8"
	case reflect.Uint16:
		return "UInt16"
	case reflect.Uint32:
		return "UInt32"
	case reflect.Uint, reflect.Uint64:
		return "UInt64"
	case reflect.Float32:
		return "Float32"
	case reflect.Float64:
		return "Float64"
	case reflect.String:
		return "String"
	default:
		panic(fmt.Sprintf("datarecording: no column type for %s", kind))
	}
}

// clickHouseCreateTableSQL builds the statement that creates a table for the
// sample entry. Rows are kept in insertion order.
func clickHouseCreateTableSQL(tableName string, sampleEntry any) string {
	t := reflect.TypeOf(sampleEntry)
	names := structs.Names(sampleEntry)

	columns := make([]string, 0, len(names))
	for i, name := range names {
		columns = append(columns,
			name+" "+clickHouseColumnType(t.Field(i).Type.Kind()))
	}

	return "CREATE TABLE IF NOT EXISTS " + tableName + " (\n\t" +
		strings.Join(columns, ",\n\t") +
		"\n) ENGINE = MergeTree() ORDER BY tuple()"
}

func (r *clickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.conn.Exec(context.Background(),
		clickHouseCreateTableSQL(tableName, sampleEntry))
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
}

func (r *clickHouseRecorder) InsertData(tableName string, entry any) {
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

func (r *clickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

// Flush writes every buffered table with one batch insert each.
func (r *clickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
		if err != nil {
			panic(fmt.Errorf("failed to prepare batch: %w", err))
		}

		for _, entry := range t.entries {
			err = batch.Append(fieldValues(entry)...)
			if err != nil {
				panic(fmt.Errorf("failed to append to batch: %w", err))
			}
		}

		err = batch.Send()
		if err != nil {
			panic(fmt.Errorf("failed to send batch: %w", err))
		}

		t.entries = nil
	}

	r.entryCount = 0
}

// Close flushes remaining data and closes the connection.
func (r *clickHouseRecorder) Close() error {
	r.Flush()

	err := r.conn.Close()
	if err != nil {
		return fmt.Errorf("failed to close ClickHouse connection: %w", err)
	}

	return nil
}

var _ DataRecorder = (*clickHouseRecorder)(nil)
