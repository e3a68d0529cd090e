//go:build !gui

package gui

import (
	"errors"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/config"
)

var ErrNotBuilt = errors.New("gui: built without the gui tag")

type Options struct {
	Title      string
	RecordPath string
}

func Run(cfg *config.Config, opts Options, logger log.Interface) error {
	return ErrNotBuilt
}
