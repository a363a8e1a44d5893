package config

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"

	"github.com/chnl2024cc/short5/pkg/ffmpeg"
)

type Config struct {
	MinIOBucket string        `yaml:"minio_bucket"`
	App         App           `yaml:"app"`
	DB          *sql.DB       `yaml:"db"`
	Queue       *RabbitMQ     `yaml:"rabbitmq"`
	Storage     *minio.Client `yaml:"storage"`
	Server      Server        `yaml:"server"`
	Pipeline    Pipeline      `yaml:"pipeline"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	QueueName    string `json:"queue_name"`
	RoutingKey   string `json:"routing_key"`
	Kind         string `json:"kind"`
}

// Pipeline holds the processing knobs handed to the worker and the
// ffmpeg tool at construction. Encode is immutable after Load.
type Pipeline struct {
	TempDir            string               `yaml:"temp_dir"`
	ThumbnailTimestamp float64              `yaml:"thumbnail_timestamp_seconds"`
	ProbeTimeout       time.Duration        `yaml:"probe_timeout"`
	TranscodeTimeout   time.Duration        `yaml:"transcode_timeout"`
	FrameTimeout       time.Duration        `yaml:"frame_timeout"`
	StuckJobTTL        time.Duration        `yaml:"stuck_job_ttl"`
	Encode             ffmpeg.EncodeProfile `yaml:"encode"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("rabbitmq_kind", "topic")
	viper.SetDefault("rabbitmq_exchange", "video_processing")
	viper.SetDefault("rabbitmq_queue", "video_processing_queue")
	viper.SetDefault("rabbitmq_routing_key", "video.process")
	viper.SetDefault("server.workers", 1)
	viper.SetDefault("pipeline.temp_dir", "temp")
	viper.SetDefault("pipeline.thumbnail_timestamp_seconds", 3.0)
	viper.SetDefault("pipeline.probe_timeout_seconds", 30)
	viper.SetDefault("pipeline.transcode_timeout_minutes", 25)
	viper.SetDefault("pipeline.frame_timeout_seconds", 60)
	viper.SetDefault("pipeline.stuck_job_ttl_minutes", 30)
	viper.SetDefault("ffmpeg.video_codec", "libx264")
	viper.SetDefault("ffmpeg.audio_codec", "aac")
	viper.SetDefault("ffmpeg.preset", "medium")
	viper.SetDefault("ffmpeg.crf", 23)
	viper.SetDefault("ffmpeg.audio_bitrate", "128k")
	viper.SetDefault("ffmpeg.pixel_format", "yuv420p")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
	if err != nil {
		return nil, err
	}

	rabbitmq := &RabbitMQ{
		Host:         viper.GetString("rabbitmq_host"),
		Port:         viper.GetInt("rabbitmq_port"),
		User:         viper.GetString("rabbitmq_user"),
		Pass:         viper.GetString("rabbitmq_pass"),
		Kind:         viper.GetString("rabbitmq_kind"),
		ExchangeName: viper.GetString("rabbitmq_exchange"),
		QueueName:    viper.GetString("rabbitmq_queue"),
		RoutingKey:   viper.GetString("rabbitmq_routing_key"),
	}

	minioClient, err := minio.New(viper.GetString("minio.url"), &minio.Options{
		Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	return &Config{
		MinIOBucket: viper.GetString("minio.bucket"),
		App: App{
			Environment: viper.GetString("app.environment"),
			Host:        viper.GetString("app.host"),
			Protocol:    viper.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
			Workers:  viper.GetInt("server.workers"),
		},
		Pipeline: Pipeline{
			TempDir:            viper.GetString("pipeline.temp_dir"),
			ThumbnailTimestamp: viper.GetFloat64("pipeline.thumbnail_timestamp_seconds"),
			ProbeTimeout:       time.Duration(viper.GetInt("pipeline.probe_timeout_seconds")) * time.Second,
			TranscodeTimeout:   time.Duration(viper.GetInt("pipeline.transcode_timeout_minutes")) * time.Minute,
			FrameTimeout:       time.Duration(viper.GetInt("pipeline.frame_timeout_seconds")) * time.Second,
			StuckJobTTL:        time.Duration(viper.GetInt("pipeline.stuck_job_ttl_minutes")) * time.Minute,
			Encode: ffmpeg.EncodeProfile{
				VideoCodec:   viper.GetString("ffmpeg.video_codec"),
				AudioCodec:   viper.GetString("ffmpeg.audio_codec"),
				Preset:       viper.GetString("ffmpeg.preset"),
				CRF:          viper.GetInt("ffmpeg.crf"),
				AudioBitrate: viper.GetString("ffmpeg.audio_bitrate"),
				PixelFormat:  viper.GetString("ffmpeg.pixel_format"),
			},
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: minioClient,
	}, nil
}
