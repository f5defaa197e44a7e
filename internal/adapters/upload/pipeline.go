package upload

import (
	"context"
	"mime/multipart"
)

// Pipeline runs Intake then Codec for one request.
type Pipeline struct {
	intake *Intake
	codec  *Codec
}

func NewPipeline(in *Intake, c *Codec) *Pipeline { return &Pipeline{intake: in, codec: c} }

// Ingest returns the encoded image, or nil when the file was optional and absent.
func (p *Pipeline) Ingest(ctx context.Context, files []*multipart.FileHeader, required bool) (*string, error) {
	h, err := p.intake.Accept(ctx, files, required)
	if err != nil || h.Empty() {
		return nil, err
	}
	enc, err := p.codec.Encode(ctx, h)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}
