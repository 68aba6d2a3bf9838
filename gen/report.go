package gen

import (
	"gopkg.in/yaml.v3"

	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/version"
)

// Report is the YAML form of a Result.
type Report struct {
	RunID     string       `yaml:"run_id"`
	Generator version.Info `yaml:"generator"`
	State     State        `yaml:"state"`
	Value     []string     `yaml:"gen"`
	Engine    []string     `yaml:"pari_instance"`
	Rejected  []Rejection  `yaml:"rejected,omitempty"`
	Skipped   []Skip       `yaml:"skipped,omitempty"`
}

// NewReport groups the accepted methods of res by class.
func NewReport(res *Result) Report {
	r := Report{
		RunID:     res.RunID,
		Generator: version.Get(),
		State:     res.State,
		Rejected:  res.Rejected,
		Skipped:   res.Skipped,
	}
	for _, m := range res.Accepted {
		if m.Receiver == ReceiverEngine {
			r.Engine = append(r.Engine, m.Name)
		} else {
			r.Value = append(r.Value, m.Name)
		}
	}
	return r
}

// Marshal encodes the report as YAML.
func (r Report) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "encoding run report")
	}
	return out, nil
}

// WriteReport writes the report of res to path.
func WriteReport(path string, res *Result) error {
	data, err := NewReport(res).Marshal()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return errors.Wrapf(err, "writing run report %s", path)
	}
	return nil
}
