package datarecording

import (
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/structs"

	// Need to use MySQL connections.
	_ "github.com/go-sql-driver/mysql"
	"github.com/tebeka/atexit"
)

// mysqlWriter records into an existing MySQL database. Buffered entries are
// written with one multi-row insert per table.
type mysqlWriter struct {
	*sql.DB

	lock       sync.Mutex
	tables     map[string]*table
	batchSize  int
	entryCount int
}

func newMySQLWriter(dsn string, batchSize int) (*mysqlWriter, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("datarecording: %w", err)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("datarecording: failed to connect to MySQL: %w", err)
	}

	w := &mysqlWriter{
		DB:        db,
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w, nil
}

func mysqlColumnType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "BOOLEAN"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "BIGINT"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return "BIGINT UNSIGNED"
	case reflect.Float32, reflect.Float64:
		return "DOUBLE"
	case reflect.String:
		return "TEXT"
	default:
		panic(fmt.Sprintf("datarecording: no column type for %s", kind))
	}
}

func mysqlCreateTableSQL(tableName string, sampleEntry any) string {
	t := reflect.TypeOf(sampleEntry)
	names := structs.Names(sampleEntry)

	columns := make([]string, 0, len(names))
	for i, name := range names {
		columns = append(columns,
			"`"+name+"` "+mysqlColumnType(t.Field(i).Type.Kind()))
	}

	return "CREATE TABLE IF NOT EXISTS `" + tableName + "` (\n\t" +
		strings.Join(columns, ",\n\t") + "\n) ENGINE=InnoDB"
}

func (w *mysqlWriter) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	_, err = w.Exec(mysqlCreateTableSQL(tableName, sampleEntry))
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	w.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
}

func (w *mysqlWriter) InsertData(tableName string, entry any) {
	w.lock.Lock()

	t, exists := w.tables[tableName]
	if !exists {
		w.lock.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)
	w.entryCount++

	full := w.entryCount >= w.batchSize
	w.lock.Unlock()

	if full {
		w.Flush()
	}
}

func (w *mysqlWriter) ListTables() []string {
	w.lock.Lock()
	defer w.lock.Unlock()

	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

func (w *mysqlWriter) Flush() {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.entryCount == 0 {
		return
	}

	for tableName, t := range w.tables {
		if len(t.entries) == 0 {
			continue
		}

		query, vals := mysqlInsert(tableName, t.entries)

		_, err := w.Exec(query, vals...)
		if err != nil {
			panic(fmt.Errorf("failed to insert into %s: %w", tableName, err))
		}

		t.entries = nil
	}

	w.entryCount = 0
}

// mysqlInsert builds a single insert statement for all the entries.
func mysqlInsert(tableName string, entries []any) (string, []any) {
	numFields := len(structs.Names(entries[0]))
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", numFields), ", ") + ")"

	rows := make([]string, 0, len(entries))
	vals := make([]any, 0, len(entries)*numFields)

	for _, entry := range entries {
		rows = append(rows, row)
		vals = append(vals, fieldValues(entry)...)
	}

	return "INSERT INTO `" + tableName + "` VALUES " +
		strings.Join(rows, ", "), vals
}

func (w *mysqlWriter) Close() error {
	w.Flush()
	return w.DB.Close()
}

var _ DataRecorder = (*mysqlWriter)(nil)
