// Package datarecording stores simulation records in a database.
package datarecording

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes an entry into a table that already exists. The entry
	// must have the same type as the sample entry of the table.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush()

	// Close flushes and releases the database.
	Close() error
}

// New creates a DataRecorder that writes into the SQLite file
// path + ".sqlite3". An empty path picks a unique name.
func New(path string) DataRecorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()
	w.startExecRecording()

	atexit.Register(func() { w.Close() })

	return w
}

// NewWithDB creates a DataRecorder on an open database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		DB:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	tableOrder []string
	batchSize  int
	entryCount int
	exec       *execRecorder
	closed     bool
}

// FileName returns the name of the database file.
func (t *sqliteWriter) FileName() string {
	return t.dbName + ".sqlite3"
}

func (t *sqliteWriter) init() {
	if t.dbName == "" {
		t.dbName = "nocsim_" + xid.New().String()
	}

	filename := t.FileName()

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	slog.Info("recording into database", "file", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func (t *sqliteWriter) startExecRecording() {
	t.exec = newExecRecorder(t)
	t.exec.Start()
}

func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if _, exists := t.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	tbl, createSQL, err := newTable(tableName, sampleEntry)
	if err != nil {
		panic(err)
	}

	if _, err := t.Exec(createSQL); err != nil {
		panic(fmt.Errorf("creating table %s: %w", tableName, err))
	}

	t.tables[tableName] = tbl
	t.tableOrder = append(t.tableOrder, tableName)
}

func (t *sqliteWriter) InsertData(tableName string, entry any) {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		panic(fmt.Sprintf("table %s stores %s, not %T",
			tableName, table.structType, entry))
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.Flush()
	}
}

func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, len(t.tableOrder))
	copy(tables, t.tableOrder)

	return tables
}

func (t *sqliteWriter) Flush() {
	if t.entryCount == 0 {
		return
	}

	if err := t.writeBuffered(); err != nil {
		panic(fmt.Errorf("flushing %s: %w", t.FileName(), err))
	}

	t.entryCount = 0
}

// writeBuffered inserts every buffered entry in one transaction.
func (t *sqliteWriter) writeBuffered() error {
	tx, err := t.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range t.tableOrder {
		tbl := t.tables[name]
		if len(tbl.entries) == 0 {
			continue
		}

		stmt, err := tx.Prepare(tbl.insertSQL)
		if err != nil {
			return err
		}

		for _, entry := range tbl.entries {
			if _, err := stmt.Exec(fieldValues(entry)...); err != nil {
				stmt.Close()
				return fmt.Errorf("table %s: %w", name, err)
			}
		}

		stmt.Close()
		tbl.entries = nil
	}

	return tx.Commit()
}

func (t *sqliteWriter) Close() error {
	if t.closed {
		return nil
	}

	t.closed = true

	if t.exec != nil {
		t.exec.End()
	}

	t.Flush()

	return t.DB.Close()
}
