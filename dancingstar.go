/*
Package dancingstar is a library for generating Z80 assembler sprite data
for PC-8801 class hardware from DancingStar project files and ordinary
images.
*/
package dancingstar

import (
	"log"
)

type DancingStar struct {
	db     *ListingDB
	logger *log.Logger

	// Posterize reduces images to eight colors before palette matching.
	Posterize bool
}

// New returns a generator. db may be nil to run without the listing
// cache.
func New(db *ListingDB, logger *log.Logger) *DancingStar {
	return &DancingStar{
		db:     db,
		logger: logger,
	}
}

func (m *DancingStar) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
