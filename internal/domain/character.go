package domain

// Character is one vocabulary entry as stored. Tags holds the comma-joined
// storage form.
type Character struct {
	ID        int64  `json:"id"`
	Character string `json:"character"`
	Pinyin    string `json:"pinyin"`
	Meaning   string `json:"meaning"`
	Level     string `json:"level"`
	Tags      string `json:"tags"`
	Other     string `json:"other"`
	Examples  string `json:"examples"`
}

// TagList returns the character's tags as names.
func (c *Character) TagList() []string {
	return ParseTags(c.Tags)
}

// CharacterInput is the writable part of a Character as accepted from
// clients and import files. Absent fields decode to "".
type CharacterInput struct {
	Character string  `json:"character" yaml:"character"`
	Pinyin    string  `json:"pinyin" yaml:"pinyin"`
	Meaning   string  `json:"meaning" yaml:"meaning"`
	Level     string  `json:"level" yaml:"level"`
	Tags      TagList `json:"tags" yaml:"tags"`
	Other     string  `json:"other" yaml:"other"`
	Examples  string  `json:"examples" yaml:"examples"`
}

// ToCharacter builds the stored record for the given id.
func (in CharacterInput) ToCharacter(id int64) Character {
	return Character{
		ID:        id,
		Character: in.Character,
		Pinyin:    in.Pinyin,
		Meaning:   in.Meaning,
		Level:     in.Level,
		Tags:      in.Tags.String(),
		Other:     in.Other,
		Examples:  in.Examples,
	}
}
