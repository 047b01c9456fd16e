package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cadupuy/airbnb-backend/domain"
	appErrors "github.com/cadupuy/airbnb-backend/errors"
	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadMemory = 10 << 20

// readFields collects the body fields of a JSON, urlencoded or multipart
// request into one map. Bracketed form keys such as location[lat] become
// nested maps, and a form value holding a JSON object is decoded.
func readFields(r *http.Request) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if r.Body == nil || r.Body == http.NoBody {
		return fields, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return nil, appErrors.Invalid(appErrors.InvalidParameter)
		}
		return fields, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, appErrors.Invalid(appErrors.InvalidParameter)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, appErrors.Invalid(appErrors.InvalidParameter)
		}
	}
	return formFields(r.PostForm), nil
}

func formFields(form url.Values) map[string]interface{} {
	fields := map[string]interface{}{}
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		if open := strings.Index(key, "["); open > 0 && strings.HasSuffix(key, "]") {
			parent, child := key[:open], key[open+1:len(key)-1]
			nested, ok := fields[parent].(map[string]interface{})
			if !ok {
				nested = map[string]interface{}{}
				fields[parent] = nested
			}
			nested[child] = value
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(value), "{") {
			var object map[string]interface{}
			if err := json.Unmarshal([]byte(value), &object); err == nil {
				fields[key] = object
				continue
			}
		}
		fields[key] = value
	}
	return fields
}

// decodeFields copies fields into out, converting form strings to numbers.
func decodeFields(fields map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return appErrors.Internal(err)
	}
	if err := decoder.Decode(fields); err != nil {
		return appErrors.Invalid(appErrors.InvalidParameter)
	}
	return nil
}

// readBody is readFields followed by decodeFields.
func readBody(r *http.Request, out interface{}) error {
	fields, err := readFields(r)
	if err != nil {
		return err
	}
	return decodeFields(fields, out)
}

// readUpload returns the multipart "photo" file. The caller closes it.
func readUpload(r *http.Request) (domain.Upload, func(), error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return domain.Upload{}, nil, appErrors.Missing(appErrors.MissingPhoto)
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		return domain.Upload{}, nil, appErrors.Missing(appErrors.MissingPhoto)
	}

	upload := domain.Upload{
		Content:     file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		FileName:    header.Filename,
	}
	return upload, func() { _ = file.Close() }, nil
}

func pathID(r *http.Request, missing string) (primitive.ObjectID, error) {
	raw, ok := mux.Vars(r)["id"]
	if !ok || raw == "" {
		return primitive.NilObjectID, appErrors.Missing(missing)
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, appErrors.Invalid(appErrors.InvalidParameter)
	}
	return id, nil
}

func roomFilter(query url.Values) (domain.RoomFilter, error) {
	filter := domain.RoomFilter{
		Title: query.Get("title"),
		Sort:  query.Get("sort"),
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Invalid(appErrors.InvalidParameter)
		}
		filter.Page = page
	}

	var err error
	if filter.PriceMin, err = queryFloat(query, "priceMin"); err != nil {
		return filter, err
	}
	if filter.PriceMax, err = queryFloat(query, "priceMax"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryFloat(query url.Values, key string) (*float64, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, appErrors.Invalid(appErrors.InvalidParameter)
	}
	return &value, nil
}
