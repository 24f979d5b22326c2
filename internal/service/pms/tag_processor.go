package pms

//go:generate $MOCKGEN -source=tag_processor.go -destination=mocks/tag_processor_mock.go

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/oshokin/id3v2/v2"

	"github.com/np1/pms/internal/logger"
)

// TagProcessor defines the interface for writing metadata tags to audio files.
type TagProcessor interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// WriteTagsRequest contains parameters for writing metadata to audio files.
type WriteTagsRequest struct {
	// TrackPath is the file path of the audio track.
	TrackPath string
	// Format selects ID3 (MP3) or Vorbis comments (FLAC).
	Format AudioFormat
	// TrackTags contains metadata key-value pairs to write.
	TrackTags map[string]string
	// Cover is an optional front cover image.
	Cover []byte
}

// TagProcessorImpl provides the default implementation of TagProcessor.
type TagProcessorImpl struct{}

// extractFLACCommentResult contains the result of extracting FLAC comment metadata.
type extractFLACCommentResult struct {
	// Comment is the FLAC Vorbis comment metadata block.
	Comment *flacvorbis.MetaDataBlockVorbisComment
	// Index is the index of the comment block in the FLAC file metadata (-1 if not found).
	Index int
}

// ErrEmptyTrackPath indicates that the track file path is empty.
var ErrEmptyTrackPath = errors.New("track path cannot be empty")

// catalogIDDescription names the comment frame holding the catalog identifier.
const catalogIDDescription = "pms track id"

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor() TagProcessor {
	return new(TagProcessorImpl)
}

// WriteTags writes metadata to audio files based on the provided request.
func (tp *TagProcessorImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req.TrackPath == "" {
		return ErrEmptyTrackPath
	}

	if req.Format == AudioFormatFLAC {
		return tp.writeFLACTags(ctx, req)
	}

	return tp.writeMP3Tags(req)
}

func (tp *TagProcessorImpl) writeFLACTags(ctx context.Context, req *WriteTagsRequest) error {
	f, err := flac.ParseFile(req.TrackPath)
	if err != nil {
		return err
	}

	commentResult := tp.extractFLACComment(f)

	tag := commentResult.Comment
	if tag == nil {
		tag = flacvorbis.New()
	}

	flacTags := map[string]string{
		"ARTIST":   req.TrackTags["trackArtist"],
		"TITLE":    req.TrackTags["trackTitle"],
		"TRACK_ID": req.TrackTags["trackID"],
		"COMMENT":  req.TrackTags["trackComment"],
	}

	for k, v := range flacTags {
		if v == "" {
			continue
		}

		if err = tag.Add(k, v); err != nil {
			return err
		}
	}

	tagMeta := tag.Marshal()
	if commentResult.Index >= 0 {
		f.Meta[commentResult.Index] = &tagMeta
	} else {
		f.Meta = append(f.Meta, &tagMeta)
	}

	if len(req.Cover) > 0 {
		picture, pictureErr := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover, "", req.Cover, http.DetectContentType(req.Cover))
		if pictureErr != nil {
			logger.Errorf(ctx, "Failed to embed image to FLAC: %v", pictureErr)
		} else {
			pictureMeta := picture.Marshal()
			f.Meta = append(f.Meta, &pictureMeta)
		}
	}

	return f.Save(req.TrackPath)
}

func (tp *TagProcessorImpl) extractFLACComment(f *flac.File) *extractFLACCommentResult {
	for idx, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}

		comment, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err == nil {
			return &extractFLACCommentResult{
				Comment: comment,
				Index:   idx,
			}
		}
	}

	return &extractFLACCommentResult{
		Comment: nil,
		Index:   -1,
	}
}

func (tp *TagProcessorImpl) writeMP3Tags(req *WriteTagsRequest) error {
	//nolint:exhaustruct // ParseFrames intentionally omitted when Parse=false (parsing disabled).
	tag, err := id3v2.Open(req.TrackPath, id3v2.Options{Parse: false})
	if err != nil {
		return err
	}

	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetArtist(req.TrackTags["trackArtist"])
	tag.SetTitle(req.TrackTags["trackTitle"])

	if comment := req.TrackTags["trackComment"]; comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    id3v2.EnglishISO6392Code,
			Description: catalogIDDescription,
			Text:        comment,
		})
	}

	if len(req.Cover) > 0 {
		//nolint:exhaustruct // Description field intentionally empty for cover images.
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    http.DetectContentType(req.Cover),
			PictureType: id3v2.PTFrontCover,
			Picture:     req.Cover,
		})
	}

	return tag.Save()
}
