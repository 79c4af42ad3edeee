package fieldcrypt

// Item is the plaintext view of a vault item on the client.
type Item struct {
	Title    string
	Username string
	Password string
	URL      string
	Notes    string
}

// SealItem encrypts Password and Notes. Empty notes stay empty.
func SealItem(item Item, key Key) (Item, error) {
	var err error
	out := item

	if out.Password, err = EncryptField(item.Password, key); err != nil {
		return Item{}, err
	}
	if item.Notes != "" {
		if out.Notes, err = EncryptField(item.Notes, key); err != nil {
			return Item{}, err
		}
	}
	return out, nil
}

func OpenItem(item Item, key Key) (Item, error) {
	var err error
	out := item

	if out.Password, err = DecryptField(item.Password, key); err != nil {
		return Item{}, err
	}
	if item.Notes != "" {
		if out.Notes, err = DecryptField(item.Notes, key); err != nil {
			return Item{}, err
		}
	}
	return out, nil
}
