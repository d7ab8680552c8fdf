package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/backsoul/studyquiz/pkg/models"
	"github.com/valyala/fasthttp"
)

// Poster envía peticiones JSON a los colaboradores externos (generación,
// puntajes, exportación, notas). Los tests lo sustituyen por un fake.
type Poster interface {
	PostJSON(url string, payload interface{}, out interface{}) error
}

// HTTPCollaborator implementación de Poster sobre fasthttp.
// Las peticiones salientes no son cancelables una vez emitidas: solo hay
// un tiempo de espera del lado del cliente que se reporta como ErrTimeout.
type HTTPCollaborator struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// NewHTTPCollaborator crea el cliente con el tiempo de espera configurado
func NewHTTPCollaborator(timeout time.Duration) *HTTPCollaborator {
	return &HTTPCollaborator{
		client:  &fasthttp.Client{},
		timeout: timeout,
	}
}

// PostJSON envía el payload y deserializa la respuesta en out (si no es nil)
func (c *HTTPCollaborator) PostJSON(url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error serializando petición: %v", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return fmt.Errorf("%w: %v", models.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", models.ErrNetworkUnavailable, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("%w: estado %d", models.ErrInvalidResponse, resp.StatusCode())
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
		}
	}

	return nil
}
