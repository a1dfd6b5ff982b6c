package constants

import "strings"

// FileFormat is the container format of an export file.
type FileFormat string

const (
	FormatCSV  FileFormat = "CSV"
	FormatXLSX FileFormat = "XLSX"
	FormatJSON FileFormat = "JSON"
	FormatXML  FileFormat = "XML"
)

// extensionFormats holds the allowed file extensions for migration ingestion.
var extensionFormats = map[string]FileFormat{
	"csv":  FormatCSV,
	"xlsx": FormatXLSX,
	"xls":  FormatXLSX,
	"json": FormatJSON,
	"xml":  FormatXML,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatForExtension resolves a normalized extension to its container format.
func FormatForExtension(ext string) (FileFormat, bool) {
	f, ok := extensionFormats[NormalizeExt(ext)]
	return f, ok
}
