package cli

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/turtacn/regionmap/internal/application/mapview"
	"github.com/turtacn/regionmap/internal/domain/region"
	"github.com/turtacn/regionmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/regionmap/internal/infrastructure/storage/minio"
	"github.com/turtacn/regionmap/pkg/errors"
)

const svgContentType = "image/svg+xml"

type renderResult struct {
	Path   string `json:"path,omitempty"`
	Bytes  int    `json:"bytes"`
	Bucket string `json:"bucket,omitempty"`
	Object string `json:"object,omitempty"`
	ETag   string `json:"etag,omitempty"`
	URL    string `json:"url,omitempty"`
}

func (r renderResult) TableHeaders() table.Row { return table.Row{"Output", "Bytes", "Object", "URL"} }

func (r renderResult) TableRows() []table.Row {
	object := ""
	if r.Object != "" {
		object = r.Bucket + "/" + r.Object
	}
	return []table.Row{{r.Path, r.Bytes, object, r.URL}}
}

type locateResult mapview.LocateResult

func (r locateResult) TableHeaders() table.Row {
	return table.Row{"ID", "Name", "Group", "Method", "Tooltip"}
}

func (r locateResult) TableRows() []table.Row {
	return []table.Row{{r.Region.ID, r.Region.Name, r.Region.Info, r.Method, r.Tooltip.Text}}
}

// exportKey names an uploaded map after the data it was drawn from.
func exportKey(fingerprint, digest, selected string) string {
	key := "maps/" + short(fingerprint) + "-" + short(digest)
	if selected != "" {
		key += "-" + selected
	}
	return key + ".svg"
}

func short(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}

func newRenderCmd() *cobra.Command {
	var (
		out      string
		selected string
		upload   bool
		expiry   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the region map as an SVG document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			app, err := cliCtx.App(ctx)
			if err != nil {
				return err
			}
			if upload && app.Objects == nil {
				return errors.New(errors.ErrCodeFeatureDisabled, "--upload requires minio.enabled")
			}

			sel := region.Normalize(selected)
			doc, err := app.Service.SVG(ctx, sel)
			if err != nil {
				return err
			}

			res := renderResult{Bytes: len(doc)}
			if out == "-" {
				if _, err := cmd.OutOrStdout().Write(doc); err != nil {
					return err
				}
				if !upload {
					return nil
				}
			} else {
				if err := os.WriteFile(out, doc, 0o644); err != nil {
					return errors.Wrap(err, errors.ErrCodeInternal, "failed to write svg").WithDetail(out)
				}
				res.Path = out
			}

			if upload {
				bucket := app.MinIO.GetBucketName("exports")
				key := exportKey(app.Service.Atlas().Fingerprint, app.Service.Snapshot().Digest, sel)
				up, err := app.Objects.Upload(ctx, &minio.UploadRequest{
					Bucket:      bucket,
					ObjectKey:   key,
					Data:        doc,
					ContentType: svgContentType,
					Metadata:    map[string]string{"selected": sel},
				})
				if err != nil {
					return err
				}
				res.Bucket, res.Object, res.ETag = up.Bucket, up.ObjectKey, up.ETag
				if url, err := app.Objects.GetPresignedDownloadURL(ctx, bucket, key, expiry); err == nil {
					res.URL = url
				} else {
					cliCtx.Logger.Warn("presigned url unavailable", logging.String("object", key), logging.Err(err))
				}
				if out == "-" {
					cmd.SetOut(cmd.ErrOrStderr())
				}
			}
			return PrintResult(cmd, res)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "O", "map.svg", `output file, "-" for stdout`)
	f.StringVar(&selected, "selected", "", "region id drawn in the active colours")
	f.BoolVar(&upload, "upload", false, "also upload the document to the exports bucket")
	f.DurationVar(&expiry, "url-expiry", 0, "presigned URL lifetime (bucket default when 0)")
	return cmd
}

func newLocateCmd() *cobra.Command {
	var (
		lon, lat float64
		ip       string
	)
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the region containing a point or an IP address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			byPoint := cmd.Flags().Changed("lon") || cmd.Flags().Changed("lat")
			if byPoint == (ip != "") {
				return errors.InvalidParam("pass either --lon and --lat or --ip")
			}
			if byPoint && !(cmd.Flags().Changed("lon") && cmd.Flags().Changed("lat")) {
				return errors.New(errors.CodeInvalidCoordinate, "both --lon and --lat are required")
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			app, err := cliCtx.App(ctx)
			if err != nil {
				return err
			}

			var res *mapview.LocateResult
			if byPoint {
				res, err = app.Service.Locate(lon, lat)
			} else {
				res, err = app.Service.LocateIP(ip)
			}
			if err != nil {
				return err
			}
			return PrintResult(cmd, locateResult(*res))
		},
	}
	f := cmd.Flags()
	f.Float64Var(&lon, "lon", 0, "longitude in degrees")
	f.Float64Var(&lat, "lat", 0, "latitude in degrees")
	f.StringVar(&ip, "ip", "", "IPv4 or IPv6 address resolved through GeoIP")
	return cmd
}

//Personal.AI order the ending
