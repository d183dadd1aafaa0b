package catalogserver

import (
	catalogports "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
	galleryapp "github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/application"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/gallery/domain"
	apierrors "github.com/Apurer/go-gin-pet-catalog/internal/shared/errors"
)

// newResponder maps page and catalog errors to RFC 7807 problems.
func newResponder() *apierrors.Responder {
	return apierrors.NewResponder("",
		apierrors.MapIs(domain.ErrUnknownCategory, apierrors.ErrNotFound, "resourceType", "category"),
		apierrors.MapIs(domain.ErrMissingElement, apierrors.ErrNotFound, "resourceType", "card"),
		apierrors.MapIs(catalogports.ErrNotFound, apierrors.ErrNotFound, "resourceType", "pet"),
		apierrors.MapIs(domain.ErrCardNotReady, apierrors.ErrConflict),
		apierrors.MapIs(galleryapp.ErrUpstream, apierrors.ErrBadGateway),
	)
}
