package export

import "fmt"

// Dataset defines one tabular section of an export.
type Dataset struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// Document groups datasets rendered into a single file.
type Document struct {
	Title    string
	Subtitle string
	Datasets []Dataset
}

// Exporter renders documents into a downloadable format.
type Exporter interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Format names an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ForFormat returns the exporter for the requested format.
func ForFormat(format Format) (Exporter, error) {
	switch format {
	case FormatCSV:
		return NewCSVExporter(), nil
	case FormatPDF:
		return NewPDFExporter(), nil
	case FormatXLSX:
		return NewXLSXExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func validate(doc Document) error {
	if len(doc.Datasets) == 0 {
		return fmt.Errorf("document requires at least one dataset")
	}
	for _, ds := range doc.Datasets {
		if len(ds.Headers) == 0 {
			return fmt.Errorf("dataset %q requires at least one header", ds.Name)
		}
	}
	return nil
}
