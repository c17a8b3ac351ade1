package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wildguard/console/internal/core/domain"
)

func (c *Client) ListDetections(ctx context.Context, q domain.DetectionQuery) (*domain.DetectionPage, error) {
	v := url.Values{}
	setIf(v, "object_type", q.ObjectType)
	setIf(v, "alert_level", q.AlertLevel)
	if q.Verified != nil {
		v.Set("verified", strconv.FormatBool(*q.Verified))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}

	var out domain.DetectionPage
	if err := c.do(ctx, get("/detections/", "/detections/", v), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type detectionResponse struct {
	Detection domain.Detection `json:"detection"`
}

func (c *Client) GetDetection(ctx context.Context, id domain.ID) (*domain.Detection, error) {
	var out detectionResponse
	if err := c.do(ctx, get("/detections/{id}/", "/detections/"+escape(id)+"/", nil), &out); err != nil {
		return nil, err
	}
	return &out.Detection, nil
}

func (c *Client) VerifyDetection(ctx context.Context, id domain.ID, in domain.VerifyInput) (*domain.Detection, error) {
	var out detectionResponse
	cl := send(http.MethodPost, "/detections/{id}/verify/", "/detections/"+escape(id)+"/verify/", in)
	if err := c.do(ctx, cl, &out); err != nil {
		return nil, err
	}
	return &out.Detection, nil
}
