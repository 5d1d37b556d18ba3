package notebook

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nbhive/nbhive/internal/identity"
)

// Notebook is the versioned, owned, titled content record. (owner, title)
// uniquely identifies at most one notebook; the uuid is assigned once and
// never changes.
type Notebook struct {
	UUID        string         `bson:"uuid" json:"uuid" validate:"required,uuid"`
	Title       string         `bson:"title" json:"title" validate:"required,max=255"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Owner       identity.Owner `bson:"owner" json:"owner"`
	Creator     *identity.User `bson:"creator,omitempty" json:"creator,omitempty"`
	Updater     *identity.User `bson:"updater,omitempty" json:"updater,omitempty"`
	Lang        string         `bson:"lang,omitempty" json:"lang,omitempty"`
	LangVersion string         `bson:"langVersion,omitempty" json:"langVersion,omitempty"`
	Public      bool           `bson:"public" json:"public"`
	Tags        []string       `bson:"tags,omitempty" json:"tags,omitempty"`
	// ContentID points at the committed payload in the content store. It is
	// swapped only after full validation.
	ContentID string    `bson:"contentId,omitempty" json:"contentId,omitempty"`
	CommitID  string    `bson:"commitId,omitempty" json:"commitId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	// OwnerKey is the derived (owner kind, owner name) index key maintained
	// by the repositories.
	OwnerKey string `bson:"ownerKey" json:"-"`
}

// GroomTitle canonicalizes a title for (owner, title) lookups: trimmed, inner
// whitespace collapsed.
func GroomTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

var validate = validator.New()

// Validate checks record-level constraints before commit. It returns a
// BadUploadError carrying one cause per invalid field, or nil.
func (n *Notebook) Validate() *BadUploadError {
	var causes []string
	if err := validate.Struct(n); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				causes = append(causes, fmt.Sprintf("%s: failed %q", strings.ToLower(fe.Field()), fe.Tag()))
			}
		} else {
			causes = append(causes, err.Error())
		}
	}
	if n.Owner.IsZero() {
		causes = append(causes, "owner: required")
	}
	if len(causes) > 0 {
		return &BadUploadError{Message: "invalid parameters", Causes: causes}
	}
	return nil
}
