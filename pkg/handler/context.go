package handler

// DI for all handlers alike.

import (
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/encode"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/middle"
)

type DBContext struct {
	Store        *db.Store
	Registry     *encode.Registry
	Metrics      *middle.Metrics // may be nil
	Vocab        *Vocabulary
	ProtocolPath string
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 8 << 20

func (dbctx *DBContext) maxBody() int64 {
	if dbctx.MaxBodyBytes > 0 {
		return dbctx.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}
