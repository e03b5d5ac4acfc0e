// Package hospital is a self-contained exercise kept apart from the
// media domain: it seeds a hospital/doctor schema and prints a report
// of doctors grouped by speciality.
package hospital

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite"
)

type Hospital struct {
	ID       int64
	Name     string
	BedCount int64
}

type Doctor struct {
	ID          int64
	Name        string
	HospitalID  int64
	JoiningDate string
	Speciality  string
	Salary      int64
}

var hospitals = []Hospital{
	{ID: 1, Name: "Toronto General Hospital", BedCount: 471},
	{ID: 2, Name: "St. Joseph's Health Centre", BedCount: 376},
	{ID: 3, Name: "Mississauga Hospital", BedCount: 751},
	{ID: 4, Name: "Credit Valley Hospital", BedCount: 382},
}

var doctors = []Doctor{
	{ID: 101, Name: "Duemler", HospitalID: 1, JoiningDate: "2005-02-10", Speciality: "Pediatric", Salary: 140000},
	{ID: 102, Name: "McBroom", HospitalID: 1, JoiningDate: "2018-07-23", Speciality: "Oncologist", Salary: 120000},
	{ID: 103, Name: "El-Ashry", HospitalID: 2, JoiningDate: "2016-05-19", Speciality: "Surgeon", Salary: 125000},
	{ID: 104, Name: "Chan", HospitalID: 2, JoiningDate: "2017-12-28", Speciality: "Pediatric", Salary: 128000},
	{ID: 105, Name: "Platonov", HospitalID: 3, JoiningDate: "2004-06-04", Speciality: "Psychiatrist", Salary: 142000},
	{ID: 106, Name: "Izukaw", HospitalID: 3, JoiningDate: "2012-09-11", Speciality: "Dermatologist", Salary: 130000},
	{ID: 107, Name: "Jhas", HospitalID: 4, JoiningDate: "2014-08-21", Speciality: "Obstetrician/Gynecologist", Salary: 132000},
	{ID: 108, Name: "Marmor", HospitalID: 4, JoiningDate: "2011-10-17", Speciality: "Radiologist", Salary: 130000},
}

const (
	createHospitalTable = `
CREATE TABLE hospitals (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	bed_count INTEGER
)`
	createDoctorTable = `
CREATE TABLE doctors (
	id           INTEGER PRIMARY KEY,
	name         TEXT NOT NULL,
	hospital_id  INTEGER NOT NULL,
	joining_date TEXT NOT NULL,
	speciality   TEXT,
	salary       INTEGER,
	experience   INTEGER,
	FOREIGN KEY (hospital_id) REFERENCES hospitals (id)
)`
)

// Setup drops and recreates both tables so repeated runs start clean.
// The child table goes first to keep the foreign key happy.
func Setup(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`DROP TABLE IF EXISTS doctors`,
		`DROP TABLE IF EXISTS hospitals`,
		createHospitalTable,
		createDoctorTable,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("setup hospital schema: %w", err)
		}
	}
	return nil
}

func Seed(ctx context.Context, db *sql.DB) error {
	for _, h := range hospitals {
		_, err := db.ExecContext(ctx,
			`INSERT INTO hospitals (id, name, bed_count) VALUES (?, ?, ?)`,
			h.ID, h.Name, h.BedCount,
		)
		if err != nil {
			return fmt.Errorf("seed hospital %d: %w", h.ID, err)
		}
	}
	for _, d := range doctors {
		_, err := db.ExecContext(ctx,
			`INSERT INTO doctors (id, name, hospital_id, joining_date, speciality, salary, experience)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.Name, d.HospitalID, d.JoiningDate, d.Speciality, d.Salary, nil,
		)
		if err != nil {
			return fmt.Errorf("seed doctor %d: %w", d.ID, err)
		}
	}
	return nil
}

// SpecialityReport prints doctors grouped under their speciality. Rows
// arrive sorted by speciality then name; a heading is emitted whenever
// the speciality changes.
func SpecialityReport(ctx context.Context, db *sql.DB, w io.Writer) error {
	rows, err := db.QueryContext(ctx,
		`SELECT speciality, name FROM doctors ORDER BY speciality ASC, name ASC`,
	)
	if err != nil {
		return fmt.Errorf("speciality report: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var current string
	first := true
	for rows.Next() {
		var speciality, name string
		if err := rows.Scan(&speciality, &name); err != nil {
			return fmt.Errorf("speciality report: scan row: %w", err)
		}

		speciality = strings.TrimSpace(speciality)
		if first || speciality != current {
			if _, err := fmt.Fprintln(w, speciality); err != nil {
				return fmt.Errorf("speciality report: %w", err)
			}
			current = speciality
			first = false
		}

		if _, err := fmt.Fprintf(w, "  Dr. %s\n", surname(name)); err != nil {
			return fmt.Errorf("speciality report: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("speciality report: %w", err)
	}
	return nil
}

// Run opens (or creates) the database at path, rebuilds the schema,
// seeds it, and writes the grouped report to w.
func Run(ctx context.Context, path string, w io.Writer) error {
	if path == "" {
		return fmt.Errorf("hospital: database path must not be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("hospital: open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys=ON`); err != nil {
		return fmt.Errorf("hospital: enable foreign keys: %w", err)
	}

	if err := Setup(ctx, db); err != nil {
		return err
	}
	if err := Seed(ctx, db); err != nil {
		return err
	}
	return SpecialityReport(ctx, db, w)
}

// surname takes the last whitespace-separated token so names stored as
// "First Last" print as the family name alone.
func surname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[len(fields)-1]
}
