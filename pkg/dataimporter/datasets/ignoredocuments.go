package datasets

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DocumentInfo is what an IgnoreDocuments expression can see about a document, e.g. `Route startsWith "m"`
type DocumentInfo struct {
	Document  string
	Route     string
	Direction string
}

func NewDocumentInfo(document string) DocumentInfo {
	name := strings.TrimSuffix(document, ".pdf")
	info := DocumentInfo{Document: document, Route: name}

	if index := strings.LastIndex(name, "-"); index > 0 {
		info.Route = name[:index]
		info.Direction = name[index+1:]
	} else if length := len(name); length > 1 {
		last := name[length-1]
		previous := name[length-2]

		if (last == 'a' || last == 'b') && previous >= '0' && previous <= '9' {
			info.Route = name[:length-1]
			info.Direction = string(last)
		}
	}

	return info
}

// FilterDocuments returns the documents to import, leaving out every document the IgnoreDocuments expression
// matches
func (d *DataSet) FilterDocuments() ([]string, error) {
	if d.IgnoreDocuments == "" {
		return d.Documents, nil
	}

	program, err := expr.Compile(d.IgnoreDocuments, expr.Env(DocumentInfo{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("ignore documents expression: %w", err)
	}

	var documents []string
	for _, document := range d.Documents {
		ignored, err := runIgnoreProgram(program, NewDocumentInfo(document))
		if err != nil {
			return nil, fmt.Errorf("ignore documents expression for %s: %w", document, err)
		}

		if !ignored {
			documents = append(documents, document)
		}
	}

	return documents, nil
}

func runIgnoreProgram(program *vm.Program, info DocumentInfo) (bool, error) {
	output, err := expr.Run(program, info)
	if err != nil {
		return false, err
	}

	return output.(bool), nil
}
