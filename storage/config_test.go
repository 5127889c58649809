package storage

import "testing"

func TestConfig_Defaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.Provider != ProviderGCS || c.Bucket != DefaultBucket || c.ProjectID != DefaultProject {
		t.Errorf("defaults = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"unknown provider", Config{Provider: "ftp", Bucket: "b"}, true},
		{"missing bucket", Config{Provider: ProviderGCS}, true},
		{"s3 half credentials", Config{Provider: ProviderS3, Bucket: "b", Region: "eu-west-1", AccessKey: "k"}, true},
		{"s3 ok", Config{Provider: ProviderS3, Bucket: "b", Region: "eu-west-1"}, false},
		{"local without path", Config{Provider: ProviderLocal, Bucket: "b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
