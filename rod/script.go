// Package rod provides browser-based metadata extraction using Chrome
// automation via go-rod.
package rod

import (
	"context"
	_ "embed"
	"errors"

	"github.com/fwojciec/pagemeta"
	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

//go:embed metadata.js
var metadataScript string

// ExtractMetadata runs the extraction inside an already-loaded page and
// returns the result. The page's own URL resolution applies, so URLs are
// absolute as the browser reports them. lastModified is the browser's
// document.lastModified string.
//
// Returns EUNAVAILABLE if the page cannot evaluate scripts (e.g. it was
// closed or detached). Context errors from the page's context are returned as-is.
func ExtractMetadata(page *rod.Page, limits pagemeta.Limits) (*pagemeta.PageMetadata, error) {
	if page == nil {
		return nil, pagemeta.Errorf(pagemeta.EUNAVAILABLE, "page unavailable")
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	res, err := page.Eval(metadataScript, limits.WithDefaults())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, pagemeta.Errorf(pagemeta.EUNAVAILABLE, "evaluating metadata script: %v", err)
	}

	return decodeMetadata(res.Value)
}

// decodeMetadata converts the script's return value into PageMetadata.
func decodeMetadata(v gson.JSON) (*pagemeta.PageMetadata, error) {
	if v.Nil() {
		return nil, pagemeta.Errorf(pagemeta.EUNAVAILABLE, "metadata script returned no result")
	}

	var m pagemeta.PageMetadata
	if err := v.Unmarshal(&m); err != nil {
		return nil, pagemeta.Errorf(pagemeta.EINTERNAL, "decoding metadata: %v", err)
	}
	m.Normalize()
	return &m, nil
}
