package grpc

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/pkg/errors"
)

// JSONCodecName is the content subtype of the RegionMap service messages.
// Clients select it with grpc.CallContentSubtype(JSONCodecName).
const JSONCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                               { return JSONCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// RegionRequest names one region by id; RF- and RU- prefixes are equivalent.
type RegionRequest struct {
	RegionID string `json:"region_id"`
}

// Validate implements Validator.
func (r *RegionRequest) Validate() error {
	if strings.TrimSpace(r.RegionID) == "" {
		return errors.New(errors.CodeInvalidRegionID, "region_id is required")
	}
	return nil
}

// ContactsRequest selects the region whose contact panel is returned; an
// empty id yields the selection prompt.
type ContactsRequest struct {
	RegionID string `json:"region_id"`
}

// LocateRequest is a longitude/latitude pair in degrees.
type LocateRequest struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Validate implements Validator.
func (r *LocateRequest) Validate() error {
	if math.IsNaN(r.Lon) || math.IsNaN(r.Lat) || r.Lon < -180 || r.Lon > 180 || r.Lat < -90 || r.Lat > 90 {
		return errors.New(errors.CodeInvalidCoordinate, "coordinate out of range")
	}
	return nil
}

// RegionMapServer is the read-only lookup surface served over gRPC.
type RegionMapServer interface {
	Tooltip(ctx context.Context, req *RegionRequest) (*mapview.Tooltip, error)
	Contacts(ctx context.Context, req *ContactsRequest) (*mapview.ContactPanel, error)
	Locate(ctx context.Context, req *LocateRequest) (*mapview.LocateResult, error)
}

type regionMapService struct {
	svc mapview.Service
}

// NewRegionMapServer serves lookups from svc.
func NewRegionMapServer(svc mapview.Service) RegionMapServer {
	return &regionMapService{svc: svc}
}

func (s *regionMapService) Tooltip(_ context.Context, req *RegionRequest) (*mapview.Tooltip, error) {
	t, err := s.svc.Tooltip(req.RegionID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *regionMapService) Contacts(_ context.Context, req *ContactsRequest) (*mapview.ContactPanel, error) {
	p, err := s.svc.Contacts(req.RegionID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *regionMapService) Locate(_ context.Context, req *LocateRequest) (*mapview.LocateResult, error) {
	return s.svc.Locate(req.Lon, req.Lat)
}

// unaryMethod builds the MethodDesc of one RegionMapServer call.
func unaryMethod[Req any](name string, call func(RegionMapServer, context.Context, *Req) (interface{}, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(RegionMapServer), ctx, req.(*Req))
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, handler)
		},
	}
}

var regionMapServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RegionMapServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Tooltip", func(s RegionMapServer, ctx context.Context, req *RegionRequest) (interface{}, error) {
			return s.Tooltip(ctx, req)
		}),
		unaryMethod("Contacts", func(s RegionMapServer, ctx context.Context, req *ContactsRequest) (interface{}, error) {
			return s.Contacts(ctx, req)
		}),
		unaryMethod("Locate", func(s RegionMapServer, ctx context.Context, req *LocateRequest) (interface{}, error) {
			return s.Locate(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "regionmap/v1/regionmap.json",
}

// RegisterRegionMapServer registers impl on s.  Must be called before Start.
func RegisterRegionMapServer(s *Server, impl RegionMapServer) {
	s.RegisterService(&regionMapServiceDesc, impl)
}

//Personal.AI order the ending
