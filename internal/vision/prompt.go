package vision

// Prompt is sent with every page image. The reply is expected to embed one JSON
// object in this shape; Parse copes with anything looser.
const Prompt = `You are a comic book (bande dessinée) cataloguer. Examine this page of a scanned comic album
and extract the bibliographic information that is visible on it.

Respond with ONLY a JSON object in the following format:

{
  "title": {
    "main": "main title of the album",
    "subtitle": "subtitle, if any",
    "series": "series name, if different from the title",
    "volume": "volume or tome number, if any"
  },
  "creators": {
    "authors": [
      {"name": "person name", "role": "scénario, dessin, couleurs, ..."}
    ],
    "publisher": "publisher name"
  },
  "metadata": {
    "language": "language of the text",
    "isbn": "ISBN if printed",
    "price": "price if printed"
  },
  "confidence": {
    "title": 0-100,
    "authors": 0-100,
    "overall": 0-100
  },
  "notes": "anything unusual about this page"
}

Use null for anything you cannot read clearly. Do not guess names that are not printed on the page.`
