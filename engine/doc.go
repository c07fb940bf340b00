// Package engine adapts zap to observability.LoggerService.
//
// Every severity call is normalized into one record shape: strings become the
// message, maps are merged key by key, and other values are flattened into
// their exported fields. The adapter can also buffer writes ("extreme mode")
// and flush them on a fixed tick and once more at shutdown.
package engine
