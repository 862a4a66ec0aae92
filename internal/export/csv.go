package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/models"
)

// ContentType of the export.
const ContentType = "text/csv; charset=utf-8"

// byteOrderMark makes spreadsheet applications detect UTF-8.
const byteOrderMark = "\ufeff"

// timeLayout mirrors the Indonesian locale, e.g., 1/3/2026, 08.00.00.
const timeLayout = "2/1/2006, 15.04.05"

var header = []string{
	"Kelompok",
	"Anggota",
	"Partikel Awal",
	"Skor AI",
	"Q1 (Reduksi)",
	"Q2 (Formasi)",
	"Q3 (Simbol)",
	"Q4 (Karhutla)",
	"Q5 (Definisi)",
	"Waktu",
}

type options struct {
	location *time.Location
}

type Option func(*options)

// WithLocation sets the time zone of the submission times. Defaults to [time.Local].
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WriteCSV writes the submissions as a CSV table with a header row, one row per submission in the given order.
func WriteCSV(w io.Writer, submissions []models.Submission, opts ...Option) error {
	o := options{location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := io.WriteString(w, byteOrderMark); err != nil {
		return errors.Wrap(err, "write byte order mark")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, s := range submissions {
		record := []string{
			s.GroupName,
			s.Members,
			strconv.Itoa(s.RedInitial),
			strconv.FormatFloat(s.AIScore, 'f', -1, 64),
			s.Answers.Reduction,
			s.Answers.Formation,
			s.Answers.Negative,
			s.Answers.Air,
			s.Answers.Definition,
			s.SubmittedAt.In(o.location).Format(timeLayout),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "write record")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

// Filename is the download name of an export made at now.
func Filename(now time.Time) string {
	return "Rekap_Laju_Reaksi_" + now.UTC().Format(time.DateOnly) + ".csv"
}
