// Package datarecording stores flat records, such as the trace of a match,
// in a database that can be inspected after the program exits.
package datarecording

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables created so far, sorted.
	ListTables() []string

	// Flush writes all buffered entries into the database.
	Flush()

	// Close flushes and releases the database.
	Close() error
}

// RecorderConfig selects and configures a recording backend.
type RecorderConfig struct {
	// Type is "sqlite" (the default), "clickhouse", "mysql" or "mongodb".
	Type string `yaml:"type" env:"TYPE"`

	// Path is the SQLite file name without the .sqlite3 extension. A random
	// name is used if it is empty.
	Path string `yaml:"path" env:"PATH"`

	// ConnStr addresses the server backends: a ClickHouse DSN such as
	// clickhouse://localhost:9000/gc, a MySQL DSN such as
	// user:pass@tcp(localhost:3306)/gc, or a MongoDB URI.
	ConnStr string `yaml:"connStr" env:"CONN_STR"`

	// BatchSize is the number of buffered entries that triggers a flush.
	BatchSize int `yaml:"batchSize" env:"BATCH_SIZE"`
}

const defaultBatchSize = 10000

// NewDataRecorderWithConfig creates the backend named by the config.
func NewDataRecorderWithConfig(cfg RecorderConfig) (DataRecorder, error) {
	var (
		r   DataRecorder
		err error
	)

	switch cfg.Type {
	case "", "sqlite":
		var w *sqliteWriter

		w, err = newSQLiteWriter(cfg.Path, cfg.BatchSize)
		if err == nil {
			atexit.Register(func() { w.Flush() })
			r = w
		}
	case "clickhouse":
		r, err = asRecorder(newClickHouseRecorder(cfg.ConnStr, cfg.BatchSize))
	case "mysql":
		r, err = asRecorder(newMySQLWriter(cfg.ConnStr, cfg.BatchSize))
	case "mongodb":
		r, err = asRecorder(newMongoRecorder(cfg.ConnStr, cfg.BatchSize))
	default:
		err = fmt.Errorf("datarecording: unknown recorder type %q", cfg.Type)
	}

	if err != nil {
		return nil, err
	}

	return r, nil
}

// asRecorder keeps a failed constructor from yielding a non-nil interface
// around a nil pointer.
func asRecorder[R DataRecorder](r R, err error) (DataRecorder, error) {
	if err != nil {
		return nil, err
	}

	return r, nil
}

// New creates a SQLite DataRecorder at path. It panics if the database
// cannot be created.
func New(path string) DataRecorder {
	r, err := NewDataRecorderWithConfig(RecorderConfig{Path: path})
	if err != nil {
		panic(err)
	}

	return r
}

// NewWithDB creates a new DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		DB:        db,
		batchSize: defaultBatchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// checkStructFields makes sure every field of the entry maps onto a column.
func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("datarecording: entry %T is not a struct", entry)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() || !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf(
				"datarecording: field %s of %T cannot be recorded",
				field.Name, entry)
		}
	}

	return nil
}

func fieldValues(entry any) []any {
	v := reflect.ValueOf(entry)

	values := make([]any, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		values = append(values, v.Field(i).Interface())
	}

	return values
}
