package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/Thutra02/mypham-fe/internal/domain"
)

// UploadField is the multipart field the upload endpoint reads.
const UploadField = "file"

// Upload stores an image and returns the relative path the API assigned to it.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(UploadField, filepath.Base(filename))
	if err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to build upload", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to read upload", err)
	}
	if err := mw.Close(); err != nil {
		return "", domain.NewAppError(domain.CodeInternal, "failed to build upload", err)
	}

	var path string
	if _, err := c.do(ctx, http.MethodPost, "upload", nil, &buf, mw.FormDataContentType(), &path); err != nil {
		return "", err
	}
	if path == "" {
		return "", domain.NewAppError(domain.CodeUpstream, "upload returned no image path", nil)
	}
	return path, nil
}

// Reports fetches the full monthly report history.
func (c *Client) Reports(ctx context.Context) ([]domain.MonthlyReport, error) {
	var out []domain.MonthlyReport
	if _, err := c.doJSON(ctx, http.MethodGet, "reports", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderStatusCounts fetches the current number of orders per status.
func (c *Client) OrderStatusCounts(ctx context.Context) ([]domain.OrderStatusCount, error) {
	var out []domain.OrderStatusCount
	if _, err := c.doJSON(ctx, http.MethodGet, "reports/order-status", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrderStatus changes the status of one order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("unknown order status %q", status), nil)
	}
	var out domain.Order
	path := "orders/" + strconv.FormatUint(uint64(id), 10) + "/status"
	body := map[string]domain.OrderStatus{"status": status}
	if _, err := c.doJSON(ctx, http.MethodPut, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
