package domain

// CertificationStatus описывает состояние заявки на сертификацию профиля.
type CertificationStatus string

const (
	CertificationNone     CertificationStatus = "none"
	CertificationPending  CertificationStatus = "pending"
	CertificationApproved CertificationStatus = "approved"
	CertificationRejected CertificationStatus = "rejected"
)

// ContentKind задаёт тип содержимого поста.
type ContentKind string

const (
	ContentImage ContentKind = "image"
	ContentVideo ContentKind = "video"
	ContentReel  ContentKind = "reel"
	ContentNews  ContentKind = "news"
)

// ContentCategory задаёт рубрику новостного поста.
type ContentCategory string

const (
	CategorySport  ContentCategory = "Sport"
	CategoryInfo   ContentCategory = "Info"
	CategorySavoir ContentCategory = "Savoir"
	CategoryDivers ContentCategory = "Divers"
)

// StoryKind задаёт тип медиа сторис.
type StoryKind string

const (
	StoryImage StoryKind = "image"
	StoryVideo StoryKind = "video"
)

// CertificationData содержит данные заявки на сертификацию.
type CertificationData struct {
	Category string `json:"category"`
	Reason   string `json:"reason"`
	Proof    string `json:"proof"`
}

// User описывает пользователя сети.
type User struct {
	ID                  string              `json:"id"`
	FirstName           string              `json:"firstName,omitempty"`
	LastName            string              `json:"lastName,omitempty"`
	Name                string              `json:"name"`
	Avatar              string              `json:"avatar"`
	Username            string              `json:"username"`
	Email               string              `json:"email,omitempty"`
	Bio                 string              `json:"bio,omitempty"`
	IsAdmin             bool                `json:"isAdmin,omitempty"`
	IsVerified          bool                `json:"isVerified,omitempty"`
	CertificationStatus CertificationStatus `json:"certificationStatus,omitempty"`
	CertificationData   *CertificationData  `json:"certificationData,omitempty"`
	Followers           []string            `json:"followers"`
	Following           []string            `json:"following"`
}

// Comment представляет комментарий к посту. Метка времени хранится строкой
// с миллисекундами, как в удалённом хранилище.
type Comment struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp"`
}

// Post представляет публикацию ленты, рилс или новость.
type Post struct {
	ID         string          `json:"id"`
	Author     User            `json:"author"`
	Kind       ContentKind     `json:"type"`
	ContentURL string          `json:"contentUrl"`
	Caption    string          `json:"caption"`
	Title      string          `json:"title,omitempty"`
	Source     string          `json:"source,omitempty"`
	Likes      []string        `json:"likes"`
	Comments   []Comment       `json:"comments"`
	Shares     int             `json:"shares"`
	Views      int             `json:"views"`
	Timestamp  int64           `json:"timestamp"`
	Category   ContentCategory `json:"category,omitempty"`
}

// LikedBy сообщает, лайкнул ли пользователь пост.
func (p Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Story представляет сторис со сроком жизни 24 часа.
type Story struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	ImageURL  string    `json:"imageUrl"`
	Kind      StoryKind `json:"type"`
	Viewed    bool      `json:"viewed"`
	Views     int       `json:"views"`
	Timestamp int64     `json:"timestamp"`
}

// Product представляет товар из магазина.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
}

// Message представляет личное сообщение между двумя пользователями.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
	Read       bool   `json:"read"`
}

// Report представляет жалобу на пост. Резолюция фиксируется флагами,
// сам пост при этом не изменяется.
type Report struct {
	ID          string `json:"id"`
	PostID      string `json:"postId"`
	ReporterID  string `json:"reporterId"`
	Reason      string `json:"reason"`
	Timestamp   int64  `json:"timestamp"`
	PostTitle   string `json:"postTitle,omitempty"`
	PostCaption string `json:"postCaption,omitempty"`
	Resolved    bool   `json:"resolved,omitempty"`
	Accepted    bool   `json:"accepted,omitempty"`
}
