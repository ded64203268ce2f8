package live

// ClientScript keeps document.head in sync with the server. It decodes
// FrameHead and FrameSnapshot frames; the script tag that loads it names
// the websocket path in data-live.
const ClientScript = `(function() {
    'use strict';

    var FRAME_HEAD = 0x10, FRAME_SNAPSHOT = 0x11;
    var OP_SET_TEXT = 0x01, OP_SET_ATTR = 0x02, OP_REMOVE_ATTR = 0x03,
        OP_INSERT = 0x04, OP_REMOVE = 0x05;
    var ID_ATTR = 'data-vango-head';

    var script = document.currentScript;
    var path = (script && script.getAttribute('data-live')) || '/_head/ws';
    var decoder = new TextDecoder();
    var reconnectDelay = 1000;

    function Reader(buf) {
        this.buf = new Uint8Array(buf);
        this.pos = 0;
    }
    Reader.prototype.byte = function() {
        if (this.pos >= this.buf.length) throw new Error('short frame');
        return this.buf[this.pos++];
    };
    Reader.prototype.uvarint = function() {
        var v = 0, mul = 1, b;
        do {
            b = this.byte();
            v += (b & 0x7f) * mul;
            mul *= 128;
        } while (b & 0x80);
        return v;
    };
    Reader.prototype.string = function() {
        var n = this.uvarint();
        if (this.pos + n > this.buf.length) throw new Error('short frame');
        var s = decoder.decode(this.buf.subarray(this.pos, this.pos + n));
        this.pos += n;
        return s;
    };

    function find(id) {
        return document.head.querySelector('[' + ID_ATTR + '="' + CSS.escape(id) + '"]');
    }

    function apply(r) {
        var op = r.byte(), id = r.string(), el = find(id), key, value;
        switch (op) {
            case OP_SET_TEXT:
                value = r.string();
                if (el) el.textContent = value;
                break;
            case OP_SET_ATTR:
                key = r.string();
                value = r.string();
                if (el) el.setAttribute(key, value);
                break;
            case OP_REMOVE_ATTR:
                key = r.string();
                if (el) el.removeAttribute(key);
                break;
            case OP_REMOVE:
                if (el) el.remove();
                break;
            case OP_INSERT:
                var node = document.createElement(r.string());
                var attrs = r.uvarint();
                for (var i = 0; i < attrs; i++) {
                    key = r.string();
                    node.setAttribute(key, r.string());
                }
                node.setAttribute(ID_ATTR, id);
                if (r.byte() === 1) node.textContent = r.string();
                if (!el) document.head.appendChild(node);
                break;
            default:
                throw new Error('unknown op ' + op);
        }
    }

    function onFrame(data) {
        var r = new Reader(data);
        var type = r.byte();
        if (type !== FRAME_HEAD && type !== FRAME_SNAPSHOT) return;
        if (type === FRAME_SNAPSHOT) {
            document.head.querySelectorAll('[' + ID_ATTR + ']').forEach(function(el) { el.remove(); });
        }
        var count = r.uvarint();
        for (var i = 0; i < count; i++) apply(r);
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + path);
        ws.binaryType = 'arraybuffer';

        ws.onopen = function() { reconnectDelay = 1000; };
        ws.onmessage = function(e) {
            try {
                onFrame(e.data);
            } catch (err) {
                console.error('[head]', err);
            }
        };
        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, 30000);
                connect();
            }, reconnectDelay);
        };
        ws.onerror = function() { ws.close(); };
    }

    connect();
})();
`
