package usecase

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/pkg/normalize"
)

const maxNameLength = 200

// cleanName normaliza y valida el nombre de un registro maestro.
func cleanName(raw string) (string, error) {
	name := normalize.Name(raw)
	if name == "" {
		return "", domain.Invalid("name", "requerido")
	}
	if len([]rune(name)) > maxNameLength {
		return "", domain.Invalid("name", "demasiado largo")
	}
	return name, nil
}

// sameRecord indica si el registro encontrado por nombre es el que se está editando.
func sameRecord(foundID, editingID string) bool {
	return foundID == editingID
}

func listFilter(req dto.PageRequest) repository.ListFilter {
	req.DefaultPage()
	return repository.ListFilter{
		Search: normalize.Name(req.Search),
		Limit:  req.Limit,
		Offset: req.Offset,
	}
}

func pageOf(f repository.ListFilter, total int) dto.PageResponse {
	return dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total}
}
