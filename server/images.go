package server

import (
	"bytes"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"github.com/katana-project/artwork/internal/errors"
	"github.com/katana-project/artwork/item"
	"github.com/katana-project/artwork/placeholder"
	"github.com/katana-project/artwork/resolver"
	"github.com/mitchellh/mapstructure"
	"net/http"
	"net/url"
	"strconv"
)

// maxBodySize is the maximum size of a request body.
const maxBodySize = 1 << 20

// imageQuery are the query parameters of an item image request.
type imageQuery struct {
	Tag          string  `mapstructure:"tag"`
	MaxWidth     float64 `mapstructure:"maxWidth"`
	MaxHeight    float64 `mapstructure:"maxHeight"`
	Quality      int     `mapstructure:"quality"`
	LimitByWidth bool    `mapstructure:"limitByWidth"`
	Index        int     `mapstructure:"index"`
}

// placeholderQuery are the query parameters of a placeholder request.
type placeholderQuery struct {
	Hash   string `mapstructure:"hash"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Punch  int    `mapstructure:"punch"`
	Format string `mapstructure:"format"`
}

// imageResult is the resolved image of a request.
type imageResult struct {
	url         string
	tag         string
	blurHash    string
	canBlurHash bool
}

// decodeQuery decodes the first value of every query parameter into v.
func decodeQuery(values url.Values, v interface{}) error {
	params := make(map[string]interface{}, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}

	if err := mapstructure.WeakDecode(params, v); err != nil {
		return &ErrBadRequest{Field: "query", Err: err}
	}
	return nil
}

func resolve(r *resolver.Resolver, type_ item.ImageType, opts *resolver.Options) (*imageResult, error) {
	u, err := r.ImageURL(type_, opts)
	if err != nil {
		return nil, err
	}

	res := &imageResult{url: u, tag: opts.Tag}
	if opts.Item != nil {
		res.tag, _ = resolver.ImageTag(opts.Item, type_, opts.BackdropIndex)
		res.blurHash, _ = resolver.BlurHash(opts.Item, type_, opts.BackdropIndex)
		res.canBlurHash = resolver.CanBlurHash(opts.Item, type_, opts.BackdropIndex)
	}

	return res, nil
}

func (s *Server) handleItemImage(w http.ResponseWriter, r *http.Request) {
	type_, err := item.ParseImageType(chi.URLParam(r, "type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var q imageQuery
	if err := decodeQuery(r.URL.Query(), &q); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := &resolver.Options{
		ItemID:        chi.URLParam(r, "itemId"),
		Tag:           q.Tag,
		MaxWidth:      q.MaxWidth,
		MaxHeight:     q.MaxHeight,
		Quality:       q.Quality,
		LimitByWidth:  q.LimitByWidth,
		BackdropIndex: q.Index,
	}
	b := s.backend.Load() // one snapshot, so the item and its URL come from the same server
	if b.remote != nil {
		m, err := b.remote.Item(r.Context(), opts.ItemID)
		if err != nil {
			s.writeError(w, r, errors.Wrap(err, "failed to look up item"))
			return
		}

		opts.Item = m
	}

	res, err := resolve(b.resolver, type_, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		res.encode(e, false)
	})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	type_, err := item.ParseImageType(chi.URLParam(r, "type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := decodeImageRequest(jx.Decode(http.MaxBytesReader(w, r.Body, maxBodySize), 4096))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := resolve(s.Resolver(), type_, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		res.encode(e, true)
	})
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	var q placeholderQuery
	if err := decodeQuery(r.URL.Query(), &q); err != nil {
		s.writeError(w, r, err)
		return
	}
	if q.Hash == "" {
		s.writeError(w, r, &ErrBadRequest{Field: "hash", Err: errors.New("must not be empty")})
		return
	}
	if q.Format == "" {
		q.Format = "png"
	}

	format, err := placeholder.ParseFormat(q.Format)
	if err != nil {
		s.writeError(w, r, &ErrBadRequest{Field: "format", Err: err})
		return
	}

	img, err := placeholder.Render(q.Hash, placeholder.Options{Width: q.Width, Height: q.Height, Punch: q.Punch})
	if err != nil {
		var invalidSize *placeholder.ErrInvalidSize
		if !errors.As(err, &invalidSize) {
			err = &ErrBadRequest{Field: "hash", Err: err}
		}

		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := placeholder.Encode(&buf, img, format); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(buf.Bytes()).String())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (ir *imageResult) encode(e *jx.Encoder, withCapability bool) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("url", func(e *jx.Encoder) {
			e.Str(ir.url)
		})
		if ir.tag != "" {
			e.Field("tag", func(e *jx.Encoder) {
				e.Str(ir.tag)
			})
		}
		if ir.blurHash != "" {
			e.Field("blurHash", func(e *jx.Encoder) {
				e.Str(ir.blurHash)
			})
		}
		if withCapability {
			e.Field("canBlurHash", func(e *jx.Encoder) {
				e.Bool(ir.canBlurHash)
			})
		}
	})
}

// decodeImageRequest decodes the body of an image request into resolver options.
func decodeImageRequest(d *jx.Decoder) (*resolver.Options, error) {
	opts := &resolver.Options{}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) (err error) {
		if d.Next() == jx.Null {
			return d.Null()
		}

		switch string(key) {
		case "item":
			opts.Item, err = item.DecodeSubject(d)
		case "itemId":
			opts.ItemID, err = d.Str()
		case "tag":
			opts.Tag, err = d.Str()
		case "maxWidth":
			opts.MaxWidth, err = d.Float64()
		case "maxHeight":
			opts.MaxHeight, err = d.Float64()
		case "element":
			opts.Element, err = decodeRect(d)
		case "quality":
			opts.Quality, err = d.Int()
		case "limitByWidth":
			opts.LimitByWidth, err = d.Bool()
		case "backdropIndex":
			opts.BackdropIndex, err = d.Int()
		default:
			return d.Skip()
		}

		if err != nil {
			return &ErrBadRequest{Field: string(key), Err: err}
		}
		return nil
	})
	if err != nil {
		var badRequest *ErrBadRequest
		if !errors.As(err, &badRequest) {
			err = &ErrBadRequest{Field: "body", Err: err}
		}
		return nil, err
	}

	return opts, nil
}

func decodeRect(d *jx.Decoder) (resolver.Element, error) {
	var rect resolver.Rect
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) (err error) {
		switch string(key) {
		case "width":
			rect.W, err = d.Float64()
		case "height":
			rect.H, err = d.Float64()
		default:
			return d.Skip()
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	return rect, nil
}
