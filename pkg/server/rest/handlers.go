package rest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"
	"github.com/aditya-wp/wayfinder/pkg/server"
	"github.com/aditya-wp/wayfinder/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, profileName string, src, dst datastructure.Coordinate,
		maxWeight float64) (string, float64, []datastructure.Coordinate, error)
	ShortestPathToClosest(ctx context.Context, profileName string, src datastructure.Coordinate,
		targets []datastructure.Coordinate, maxWeight float64) (string, float64, int, error)
	DistanceMatrix(ctx context.Context, profileName string, sources, targets []datastructure.Coordinate,
		maxWeight float64) ([][]float64, error)
	Isochrone(ctx context.Context, profileName string, center datastructure.Coordinate,
		budget float64, forward bool) ([]datastructure.Coordinate, error)
	Connectivity(ctx context.Context, profileName string, point datastructure.Coordinate,
		budget float64) (bool, error)
}

type NavigationHandler struct {
	svc NavigationService
}

var routingUnbounded = math.Inf(1)

func NavigatorRouter(r *chi.Mux, svc NavigationService) {
	handler := &NavigationHandler{svc}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigation", func(r chi.Router) {
			r.Post("/route", handler.Route)
			r.Post("/route-closest", handler.RouteToClosest)
			r.Post("/matrix", handler.Matrix)
			r.Post("/isochrone", handler.Isochrone)
			r.Post("/connectivity", handler.Connectivity)
		})
	})
}

type Coord struct {
	Lat float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon float64 `json:"lon" validate:"required,lt=180,gt=-180"`
}

func (c Coord) toCoordinate() datastructure.Coordinate {
	return datastructure.NewCoordinate(c.Lat, c.Lon)
}

func toCoordinates(coords []Coord) []datastructure.Coordinate {
	out := make([]datastructure.Coordinate, len(coords))
	for i, c := range coords {
		out[i] = c.toCoordinate()
	}
	return out
}

type RouteRequest struct {
	Source      Coord   `json:"source" validate:"required"`
	Destination Coord   `json:"destination" validate:"required"`
	Profile     string  `json:"profile"`
	MaxWeight   float64 `json:"max_weight"`
}

func (s *RouteRequest) Bind(r *http.Request) error {
	if s.MaxWeight < 0 {
		return errors.New("max_weight must not be negative")
	}
	return nil
}

// maxWeightOrUnbounded a zero budget in a request means "no bound".
func maxWeightOrUnbounded(w float64) float64 {
	if w == 0 {
		return routingUnbounded
	}
	return w
}

type RouteResponse struct {
	Path   string  `json:"path"`
	Weight float64 `json:"weight"`
	Coords []Coord `json:"coordinates"`
}

func RenderRouteResponse(path string, weight float64, coords []datastructure.Coordinate) *RouteResponse {
	coordsResp := make([]Coord, 0, len(coords))
	for _, c := range coords {
		coordsResp = append(coordsResp, Coord{Lat: c.Lat, Lon: c.Lon})
	}
	return &RouteResponse{
		Path:   path,
		Weight: weight,
		Coords: coordsResp,
	}
}

func (h *NavigationHandler) Route(w http.ResponseWriter, r *http.Request) {
	data := &RouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if ok := h.validateRequest(w, r, data); !ok {
		return
	}

	path, weight, coords, err := h.svc.ShortestPath(r.Context(), data.Profile,
		data.Source.toCoordinate(), data.Destination.toCoordinate(), maxWeightOrUnbounded(data.MaxWeight))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderRouteResponse(path, weight, coords))
}

type RouteClosestRequest struct {
	Source    Coord   `json:"source" validate:"required"`
	Targets   []Coord `json:"targets" validate:"required,dive"`
	Profile   string  `json:"profile"`
	MaxWeight float64 `json:"max_weight"`
}

func (s *RouteClosestRequest) Bind(r *http.Request) error {
	if len(s.Targets) == 0 {
		return errors.New("targets must not be empty")
	}
	return nil
}

type RouteClosestResponse struct {
	Path        string  `json:"path"`
	Weight      float64 `json:"weight"`
	TargetIndex int     `json:"target_index"`
}

func (h *NavigationHandler) RouteToClosest(w http.ResponseWriter, r *http.Request) {
	data := &RouteClosestRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if ok := h.validateRequest(w, r, data); !ok {
		return
	}

	path, weight, idx, err := h.svc.ShortestPathToClosest(r.Context(), data.Profile,
		data.Source.toCoordinate(), toCoordinates(data.Targets), maxWeightOrUnbounded(data.MaxWeight))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &RouteClosestResponse{
		Path:        path,
		Weight:      weight,
		TargetIndex: idx,
	})
}

type MatrixRequest struct {
	Sources   []Coord `json:"sources" validate:"required,dive"`
	Targets   []Coord `json:"targets" validate:"required,dive"`
	Profile   string  `json:"profile"`
	MaxWeight float64 `json:"max_weight"`
}

func (s *MatrixRequest) Bind(r *http.Request) error {
	if len(s.Sources) == 0 || len(s.Targets) == 0 {
		return errors.New("sources and targets must not be empty")
	}
	return nil
}

type MatrixResponse struct {
	// Weights[i][j] weight from source i to target j, -1 when unreachable
	Weights [][]float64 `json:"weights"`
}

func RenderMatrixResponse(matrix [][]float64) *MatrixResponse {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = make([]float64, len(row))
		for j, w := range row {
			if !service.IsFinite(w) {
				out[i][j] = -1
				continue
			}
			out[i][j] = w
		}
	}
	return &MatrixResponse{Weights: out}
}

func (h *NavigationHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	data := &MatrixRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if ok := h.validateRequest(w, r, data); !ok {
		return
	}

	matrix, err := h.svc.DistanceMatrix(r.Context(), data.Profile,
		toCoordinates(data.Sources), toCoordinates(data.Targets), maxWeightOrUnbounded(data.MaxWeight))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderMatrixResponse(matrix))
}

type IsochroneRequest struct {
	Center   Coord   `json:"center" validate:"required"`
	Budget   float64 `json:"budget" validate:"required,gt=0"`
	Profile  string  `json:"profile"`
	Backward bool    `json:"backward"`
}

func (s *IsochroneRequest) Bind(r *http.Request) error {
	return nil
}

type IsochroneResponse struct {
	Coords []Coord `json:"coordinates"`
}

func (h *NavigationHandler) Isochrone(w http.ResponseWriter, r *http.Request) {
	data := &IsochroneRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if ok := h.validateRequest(w, r, data); !ok {
		return
	}

	coords, err := h.svc.Isochrone(r.Context(), data.Profile, data.Center.toCoordinate(),
		data.Budget, !data.Backward)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	coordsResp := make([]Coord, 0, len(coords))
	for _, c := range coords {
		coordsResp = append(coordsResp, Coord{Lat: c.Lat, Lon: c.Lon})
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &IsochroneResponse{Coords: coordsResp})
}

type ConnectivityRequest struct {
	Point   Coord   `json:"point" validate:"required"`
	Budget  float64 `json:"budget" validate:"required,gt=0"`
	Profile string  `json:"profile"`
}

func (s *ConnectivityRequest) Bind(r *http.Request) error {
	return nil
}

type ConnectivityResponse struct {
	Connected bool `json:"connected"`
}

func (h *NavigationHandler) Connectivity(w http.ResponseWriter, r *http.Request) {
	data := &ConnectivityRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if ok := h.validateRequest(w, r, data); !ok {
		return
	}

	connected, err := h.svc.Connectivity(r.Context(), data.Profile, data.Point.toCoordinate(), data.Budget)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ConnectivityResponse{Connected: connected})
}

func (h *NavigationHandler) validateRequest(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return false
	}
	return true
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *server.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Code() {
		case server.ErrNotFound:
			render.Render(w, r, ErrNotFoundRend(err))
			return
		case server.ErrBadParamInput:
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}
	}
	render.Render(w, r, ErrInternalServerErrorRend(errors.New("internal server error")))
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrNotFoundRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 404,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}
