package api

import perr "hashjudge/internal/platform/errors"

var errNoModel = perr.Unavailablef("no model loaded")
