package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/filekind"
	"github.com/meigma/filekind/httpapi"
)

func newPostCmd(a *app) *cobra.Command {
	var (
		baseURL string
		form    bool
		field   string
	)
	cmd := &cobra.Command{
		Use:   "post <endpoint> <file>",
		Short: "Post a JSON file, or upload any file as a form, to the API server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = a.cfg.API.BaseURL
			}
			client := httpapi.NewClient(baseURL, a.cfg.ClientOptions(a.logger)...)
			endpoint, path := args[0], args[1]

			var (
				res httpapi.Result[json.RawMessage]
				err error
			)
			if form {
				res, err = a.postForm(cmd, client, endpoint, path, field)
			} else {
				res, err = a.postJSON(cmd, client, endpoint, path)
			}
			if err != nil {
				return err
			}
			if err := res.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", res.Success, res.Message)
			if res.HasData() {
				fmt.Fprintln(out, string(*res.Data))
			}
			if res.IsFailed() {
				return fmt.Errorf("server reported failure: %s", res.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "api-url", "", "API base URL (overrides api.base_url)")
	cmd.Flags().BoolVar(&form, "form", false, "upload the file as multipart/form-data instead of posting JSON")
	cmd.Flags().StringVar(&field, "field", "file", "form field name for --form uploads")
	return cmd
}

func (a *app) postJSON(cmd *cobra.Command, client *httpapi.Client, endpoint, path string) (httpapi.Result[json.RawMessage], error) {
	var zero httpapi.Result[json.RawMessage]
	jf, raw, err := a.openJSON(path)
	if err != nil {
		return zero, err
	}
	defer raw.Close()

	body, err := filekind.ParseToObject[any](jf, nil)
	if err != nil {
		return zero, err
	}
	return httpapi.PostJSON[httpapi.Result[json.RawMessage]](cmd.Context(), client, endpoint, body)
}

func (a *app) postForm(cmd *cobra.Command, client *httpapi.Client, endpoint, path, field string) (httpapi.Result[json.RawMessage], error) {
	var zero httpapi.Result[json.RawMessage]
	raw, err := filekind.OpenRawFile(path)
	if err != nil {
		return zero, err
	}
	defer raw.Close()

	tf, err := a.loader.Load(raw)
	if err != nil {
		return zero, err
	}
	fields := map[string]string{"type": tf.Tag().String()}
	return httpapi.PostForm[httpapi.Result[json.RawMessage]](cmd.Context(), client, endpoint, fields, httpapi.RawFormFile(field, raw))
}
