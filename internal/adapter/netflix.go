package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

// DefaultNetflixURL is the careers search for coordinator roles, newest first.
const DefaultNetflixURL = "https://explore.jobs.netflix.net/careers?query=coordinator&pid=790302362428&domain=netflix.com&sort_by=new&triggerGoButton=false&utm_source=Netflix%20Careersite"

// netflixJob is a single entry in the Netflix careers search response.
type netflixJob struct {
	JobID    jobID  `json:"job_id"`
	Title    string `json:"title"`
	Team     string `json:"team"`
	Location string `json:"location"`
}

type netflixResponse struct {
	Jobs []netflixJob `json:"jobs"`
}

// jobID accepts either a JSON string or a JSON number.
type jobID string

func (id *jobID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = jobID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("job_id must be a string or number, got %s", b)
	}
	*id = jobID(n.String())
	return nil
}

// NetflixAdapter reads the first page of the Netflix careers JSON search.
type NetflixAdapter struct {
	url    string
	client *http.Client
}

// NewNetflixAdapter creates an adapter for the given search URL.
func NewNetflixAdapter(url string, client *http.Client) *NetflixAdapter {
	if url == "" {
		url = DefaultNetflixURL
	}
	return &NetflixAdapter{url: url, client: client}
}

// FetchJobs performs one GET and normalizes every entry that carries a job_id.
// An undecodable body is returned as *model.DecodeError with a preview.
func (a *NetflixAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	body, err := fetchBody(ctx, a.client, a.url)
	if err != nil {
		return nil, fmt.Errorf("netflix fetch: %w", err)
	}

	var nr netflixResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, model.NewDecodeError(model.SourceNetflix, body, err)
	}

	jobs := make([]model.Job, 0, len(nr.Jobs))
	for _, nj := range nr.Jobs {
		if nj.JobID == "" {
			continue
		}
		jobs = append(jobs, model.Job{
			ID:       string(nj.JobID),
			Source:   model.SourceNetflix,
			Title:    nj.Title,
			Team:     nj.Team,
			Location: nj.Location,
		})
	}
	return jobs, nil
}
