package api

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>Gemini Dress Up</title>
<script src="https://cdn.tailwindcss.com"></script>
<style>
body { font-family: Inter, system-ui, -apple-system, Segoe UI, Roboto, sans-serif; }
.loader{border:8px solid #f3f3f3;border-top:8px solid #6366f1;border-radius:50%;width:56px;height:56px;animation:spin 1.2s linear infinite}
@keyframes spin{0%{transform:rotate(0)}100%{transform:rotate(360deg)}}
.image-upload-area{border:2px dashed #d1d5db;background:#f9fafb;border-radius:8px;transition:all .3s ease;cursor:pointer}
.image-upload-area:hover{border-color:#6366f1;background:#f3f4f6}
.result-preview{width:100%;min-height:400px;background:#f3f4f6;border:2px dashed #d1d5db;display:flex;align-items:center;justify-content:center;overflow:hidden;border-radius:8px}
.result-preview img{max-width:100%;max-height:640px;object-fit:contain}
</style>
</head>
<body class="bg-gray-50 text-gray-800">
<div class="container mx-auto p-4 md:p-8 max-w-6xl">
<header class="text-center mb-8">
<h1 class="text-3xl md:text-4xl font-bold text-gray-900">Gemini Dress Up</h1>
<p class="text-gray-600 mt-2">Upload a photo of a person and the clothes to put on them. Model: {{.Model}}</p>
</header>

<main class="grid grid-cols-1 md:grid-cols-2 gap-6">
<section class="bg-white p-6 rounded-2xl shadow-lg space-y-6">
<div>
<div class="flex items-center justify-between mb-2">
<h2 class="text-lg font-semibold text-gray-700">Person</h2>
<button id="remove-person" class="hidden text-sm text-red-600 hover:underline">Remove</button>
</div>
<label class="image-upload-area block p-6 text-center">
<input type="file" id="person-input" accept="{{.Accept}}" class="hidden">
<img id="person-preview" class="hidden max-h-64 mx-auto rounded-lg">
<p id="person-placeholder" class="text-gray-500">Click to upload a photo of a person</p>
</label>
</div>

<div>
<h2 class="text-lg font-semibold text-gray-700 mb-2">Clothing</h2>
<div id="clothing-list" class="grid grid-cols-3 gap-3 mb-3"></div>
<label class="image-upload-area block p-4 text-center">
<input type="file" id="clothing-input" accept="{{.Accept}}" class="hidden" multiple>
<p class="text-gray-500">Click to add clothing items</p>
</label>
</div>

<div class="flex gap-3">
<button id="generate-btn" disabled class="flex-1 bg-indigo-600 text-white font-bold py-3 rounded-lg hover:bg-indigo-700 disabled:bg-gray-400 disabled:cursor-not-allowed">Dress Up</button>
<button id="reset-btn" class="px-4 py-3 rounded-lg border border-gray-300 hover:bg-gray-100">Reset</button>
</div>
<p id="error-message" class="hidden text-red-600 text-sm"></p>
</section>

<section class="bg-white p-6 rounded-2xl shadow-lg">
<h2 class="text-lg font-semibold text-gray-700 mb-2">Result</h2>
<div id="result" class="result-preview"><span class="text-gray-400">The dressed-up image will appear here</span></div>
</section>
</main>
</div>

<script>
const personInput = document.getElementById('person-input');
const personPreview = document.getElementById('person-preview');
const personPlaceholder = document.getElementById('person-placeholder');
const removePerson = document.getElementById('remove-person');
const clothingInput = document.getElementById('clothing-input');
const clothingList = document.getElementById('clothing-list');
const generateBtn = document.getElementById('generate-btn');
const resetBtn = document.getElementById('reset-btn');
const errorMessage = document.getElementById('error-message');
const result = document.getElementById('result');

const dataURL = (img) => 'data:' + img.type + ';base64,' + img.data;

function showError(msg) {
    if (!msg) {
        errorMessage.classList.add('hidden');
        return;
    }
    errorMessage.textContent = msg;
    errorMessage.classList.remove('hidden');
}

function render(state) {
    if (state.personImage) {
        personPreview.src = dataURL(state.personImage);
        personPreview.classList.remove('hidden');
        personPlaceholder.classList.add('hidden');
        removePerson.classList.remove('hidden');
    } else {
        personPreview.classList.add('hidden');
        personPlaceholder.classList.remove('hidden');
        removePerson.classList.add('hidden');
    }

    clothingList.innerHTML = '';
    for (const item of state.clothingItems) {
        const wrap = document.createElement('div');
        wrap.className = 'relative';
        const img = document.createElement('img');
        img.src = dataURL(item.image);
        img.className = 'w-full h-24 object-cover rounded-lg border';
        const del = document.createElement('button');
        del.textContent = '×';
        del.className = 'absolute top-1 right-1 bg-white/80 rounded-full w-6 h-6 text-red-600';
        del.onclick = () => call('DELETE', '/api/studio/clothing/' + item.id);
        wrap.appendChild(img);
        wrap.appendChild(del);
        clothingList.appendChild(wrap);
    }

    const gen = state.generation;
    generateBtn.disabled = !state.canGenerate || gen.status === 'loading';
    generateBtn.textContent = gen.status === 'loading' ? 'Generating...' : 'Dress Up';

    if (gen.status === 'loading') {
        result.innerHTML = '<div class="loader"></div>';
    } else if (gen.status === 'succeeded' && gen.image) {
        const img = document.createElement('img');
        img.src = dataURL(gen.image);
        img.className = 'rounded-lg shadow-md';
        const link = document.createElement('a');
        link.href = img.src;
        link.download = 'dress-up.' + (gen.image.type === 'image/jpeg' ? 'jpg' : 'png');
        link.textContent = 'Download';
        link.className = 'block text-center text-indigo-600 mt-2';
        result.innerHTML = '';
        const box = document.createElement('div');
        box.appendChild(img);
        box.appendChild(link);
        result.appendChild(box);
    } else if (gen.status === 'failed') {
        result.innerHTML = '';
        const span = document.createElement('span');
        span.className = 'text-red-500 p-4 text-center';
        span.textContent = gen.error;
        result.appendChild(span);
    } else {
        result.innerHTML = '<span class="text-gray-400">The dressed-up image will appear here</span>';
    }
}

async function call(method, url, body) {
    showError('');
    try {
        const resp = await fetch(url, { method, body, credentials: 'same-origin' });
        const j = await resp.json();
        if (!resp.ok || !j.success) {
            throw new Error(j.error || ('HTTP ' + resp.status));
        }
        render(j);
    } catch (err) {
        console.error(err);
        showError(err.message);
    }
}

function upload(method, url, file) {
    const fd = new FormData();
    fd.append('image', file);
    return call(method, url, fd);
}

personInput.addEventListener('change', async () => {
    if (personInput.files[0]) await upload('PUT', '/api/studio/person', personInput.files[0]);
    personInput.value = '';
});
clothingInput.addEventListener('change', async () => {
    for (const f of clothingInput.files) await upload('POST', '/api/studio/clothing', f);
    clothingInput.value = '';
});
removePerson.addEventListener('click', (e) => { e.preventDefault(); call('DELETE', '/api/studio/person'); });
generateBtn.addEventListener('click', () => call('POST', '/api/studio/generate'));
resetBtn.addEventListener('click', async () => {
    await call('DELETE', '/api/studio');
    listen();
});

// A reset replaces the session's studio, so the stream has to be reopened.
let events = null;
function listen() {
    if (events) events.close();
    events = new EventSource('/api/studio/events');
    events.addEventListener('studio', (e) => render(JSON.parse(e.data)));
}

fetch('/api/studio', { credentials: 'same-origin' })
    .then((r) => r.json())
    .then((state) => {
        render(state);
        listen();
    })
    .catch((err) => showError(err.message));
</script>
</body>
</html>`))

func (h *DressUpHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	// 最初のアクセスでセッションCookieを発行しておく
	h.sessionID(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	data := struct {
		Model  string
		Accept string
	}{
		Model:  h.model,
		Accept: strings.Join(valueobjects.AcceptedMimeTypes, ","),
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
